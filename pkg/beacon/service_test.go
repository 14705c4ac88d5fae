package beacon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// testStore is a minimal MessageStore for driving a Controller
// directly in tests.
type testStore struct {
	msgs []fx.Message
}

func (s *testStore) AddMessages(msgs ...fx.Message) {
	s.msgs = append(s.msgs, msgs...)
}

func (s *testStore) ProcessMessages(proc fx.MessageProcessor) {
	msgs := s.msgs
	s.msgs = nil
	remains := msgs[:0]
	for i, msg := range msgs {
		mc := &testMsgCtx{store: s, msg: msg}
		proc.ProcessMessage(mc)
		if !mc.taken {
			remains = append(remains, msg)
		}
		if mc.stop {
			remains = append(remains, msgs[i+1:]...)
			break
		}
	}
	s.msgs = append(remains, s.msgs...)
}

type testMsgCtx struct {
	store *testStore
	msg   fx.Message
	taken bool
	stop  bool
}

func (c *testMsgCtx) CurrentMessage() fx.Message     { return c.msg }
func (c *testMsgCtx) MessageTaken()                  { c.taken = true }
func (c *testMsgCtx) StopProcessing()                { c.stop = true }
func (c *testMsgCtx) AddMessages(msgs ...fx.Message) { c.store.AddMessages(msgs...) }

// testCtlCtx is a minimal ControlContext for driving a Controller
// directly in tests.
type testCtlCtx struct {
	store  testStore
	now    time.Time
	posted []fx.Message
}

func (c *testCtlCtx) Time() time.Time                           { return c.now }
func (c *testCtlCtx) Context() context.Context                  { return context.Background() }
func (c *testCtlCtx) PriorityLevel() int                        { return fx.PrLvSense }
func (c *testCtlCtx) Messages() fx.MessageStore                 { return &c.store }
func (c *testCtlCtx) PostRun(hooks ...fx.Controller)            {}
func (c *testCtlCtx) PreRunAt(prLv int, ctls ...fx.Controller)  {}
func (c *testCtlCtx) PostRunAt(prLv int, ctls ...fx.Controller) {}
func (c *testCtlCtx) PostMessage(msg fx.Message)                { c.posted = append(c.posted, msg) }
func (c *testCtlCtx) TriggerNext()                              {}

func collectBeaconMsgs(store *testStore) []*BeaconMsg {
	var out []*BeaconMsg
	for _, msg := range store.msgs {
		if m, ok := msg.(*BeaconMsg); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestDetectorEmitsInBand(t *testing.T) {
	cfg := *NewConfig()
	cfg.TimerPrescale = 1

	ctr := &fakeCounter16{}
	d := NewDetector(cfg, ctr)

	cc := &testCtlCtx{now: time.Now()}
	var ts Ticks
	for i := 0; i < 20; i++ {
		ts += 876
		cc.store.AddMessages(&EdgeMsg{Timestamp: ts})
	}
	require.NoError(t, d.Control(cc))

	beacons := collectBeaconMsgs(&cc.store)
	require.NotEmpty(t, beacons)
	require.InDelta(t, 1427, beacons[len(beacons)-1].FrequencyHz, 2)
	// All EdgeMsgs must have been taken.
	require.Len(t, cc.store.msgs, len(beacons))
}

func TestDetectorIgnoresOutOfBand(t *testing.T) {
	cfg := *NewConfig()
	cfg.TimerPrescale = 1

	d := NewDetector(cfg, &fakeCounter16{})
	cc := &testCtlCtx{now: time.Now()}
	var ts Ticks
	for i := 0; i < 20; i++ {
		ts += 3000
		cc.store.AddMessages(&EdgeMsg{Timestamp: ts})
	}
	require.NoError(t, d.Control(cc))
	require.Empty(t, collectBeaconMsgs(&cc.store))
	require.Empty(t, cc.store.msgs)
}

func TestDetectorCaptureEdgePostsMessage(t *testing.T) {
	ctr := &fakeCounter16{}
	d := NewDetector(*NewConfig(), ctr)
	cc := &testCtlCtx{now: time.Now()}

	ctr.advance(123)
	d.CaptureEdge(cc)
	require.Len(t, cc.posted, 1)
	require.Equal(t, Ticks(123), cc.posted[0].(*EdgeMsg).Timestamp)
}
