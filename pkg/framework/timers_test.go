package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type timerCtl struct {
	msgCh chan Message
}

func newTimerCtl() *timerCtl {
	return &timerCtl{msgCh: make(chan Message, 16)}
}

func (c *timerCtl) PreRunAt(priorityLevel int, controllers ...Controller)  {}
func (c *timerCtl) PostRunAt(priorityLevel int, controllers ...Controller) {}
func (c *timerCtl) PostMessage(msg Message)                                { c.msgCh <- msg }
func (c *timerCtl) TriggerNext()                                           {}

func (c *timerCtl) receive(t *testing.T) *TimeoutMsg {
	select {
	case msg := <-c.msgCh:
		timeout, ok := msg.(*TimeoutMsg)
		require.True(t, ok, "expect TimeoutMsg, got %T", msg)
		return timeout
	case <-time.After(5 * time.Second):
		t.Fatal("no timeout delivered")
		return nil
	}
}

func (c *timerCtl) expectNone(t *testing.T, d time.Duration) {
	select {
	case msg := <-c.msgCh:
		t.Fatalf("unexpected message: %v", msg)
	case <-time.After(d):
	}
}

func TestTimersExpireDelivers(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("maneuver", 10*time.Millisecond)
	require.True(t, tm.Active("maneuver"))

	msg := ctl.receive(t)
	require.Equal(t, "maneuver", msg.Tag)
	require.False(t, msg.At.IsZero())
	require.False(t, tm.Active("maneuver"))
}

func TestTimersStopNeverDelivers(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("maneuver", 30*time.Millisecond)
	tm.Stop("maneuver")
	require.False(t, tm.Active("maneuver"))
	ctl.expectNone(t, 100*time.Millisecond)
}

func TestTimersStopRaceNeverDelivers(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("maneuver", time.Hour)
	tm.lock.Lock()
	entry := tm.armed["maneuver"]
	tm.lock.Unlock()
	tm.Stop("maneuver")

	// The timer callback may already be running when Stop returns;
	// its delivery must be suppressed by the entry identity check.
	tm.expire(entry)
	ctl.expectNone(t, 50*time.Millisecond)
}

func TestTimersRestartReplaces(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("maneuver", time.Hour)
	tm.lock.Lock()
	stale := tm.armed["maneuver"]
	tm.lock.Unlock()
	tm.Start("maneuver", 20*time.Millisecond)

	// A late firing of the replaced timer must not deliver.
	tm.expire(stale)

	msg := ctl.receive(t)
	require.Equal(t, "maneuver", msg.Tag)
	ctl.expectNone(t, 50*time.Millisecond)
}

func TestTimersExpireInOrder(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("first", 10*time.Millisecond)
	tm.Start("second", 60*time.Millisecond)
	tm.Start("third", 110*time.Millisecond)

	var tags []string
	for i := 0; i < 3; i++ {
		tags = append(tags, ctl.receive(t).Tag)
	}
	require.Equal(t, []string{"first", "second", "third"}, tags)
}

func TestTimersIndependentTags(t *testing.T) {
	ctl := newTimerCtl()
	tm := NewTimers(ctl)
	tm.Start("keep", 30*time.Millisecond)
	tm.Start("drop", 10*time.Millisecond)
	tm.Stop("drop")

	msg := ctl.receive(t)
	require.Equal(t, "keep", msg.Tag)
	ctl.expectNone(t, 50*time.Millisecond)
}