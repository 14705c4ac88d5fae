package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/beacon"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/motion"
	"github.com/robotalks/rover.go/pkg/telemetry/msgs"
)

type recordingRegistrar struct {
	events []fx.Message
}

func (r *recordingRegistrar) SendEvent(_ context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

type fakeCommand struct {
	msg     fx.Message
	replies []fx.Message
}

func (c *fakeCommand) Msg() fx.Message { return c.msg }

func (c *fakeCommand) Done(msg fx.Message) error {
	c.replies = append(c.replies, msg)
	return nil
}

type fakeStatus struct {
	state    motion.State
	deferred int
}

func (s *fakeStatus) State() motion.State { return s.state }
func (s *fakeStatus) Deferred() int       { return s.deferred }

type fakeBeacon struct {
	hz float64
}

func (b *fakeBeacon) Frequency() float64 { return b.hz }

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

type testCtlCtx struct {
	store  testStore
	posted []fx.Message
}

func (c *testCtlCtx) Time() time.Time                           { return time.Now() }
func (c *testCtlCtx) Context() context.Context                  { return context.Background() }
func (c *testCtlCtx) PriorityLevel() int                        { return fx.PrLvControl }
func (c *testCtlCtx) Messages() fx.MessageStore                 { return &c.store }
func (c *testCtlCtx) PostRun(hooks ...fx.Controller)            {}
func (c *testCtlCtx) PreRunAt(prLv int, ctls ...fx.Controller)  {}
func (c *testCtlCtx) PostRunAt(prLv int, ctls ...fx.Controller) {}
func (c *testCtlCtx) PostMessage(msg fx.Message)                { c.posted = append(c.posted, msg) }
func (c *testCtlCtx) TriggerNext()                              {}

func newTestBridge() (*Bridge, *recordingRegistrar, *fakeStatus, *fakeBeacon) {
	reg := &recordingRegistrar{}
	status := &fakeStatus{}
	freq := &fakeBeacon{}
	return NewBridge(reg, status, freq), reg, status, freq
}

func TestBridgeManeuverCommand(t *testing.T) {
	b, _, _, _ := newTestBridge()
	cc := &testCtlCtx{}
	cmd := &fakeCommand{msg: &msgs.ManeuverCmd{Command: uint32(link.CmdAlignBeacon)}}
	cc.store.AddMessages(&CommandMsg{Command: cmd})

	require.NoError(t, b.handleCommands(cc))
	require.Empty(t, cc.store.msgs)
	require.Equal(t, []fx.Message{&link.CommandMsg{Command: link.CmdAlignBeacon}}, cc.posted)
	require.Len(t, cmd.replies, 1)
	require.IsType(t, &msgs.CommandOK{}, cmd.replies[0])
}

func TestBridgeManeuverCommandInvalid(t *testing.T) {
	b, _, _, _ := newTestBridge()
	cc := &testCtlCtx{}
	cmd := &fakeCommand{msg: &msgs.ManeuverCmd{Command: 0x7f}}
	cc.store.AddMessages(&CommandMsg{Command: cmd})

	require.NoError(t, b.handleCommands(cc))
	require.Empty(t, cc.posted)
	require.Len(t, cmd.replies, 1)
	require.IsType(t, &msgs.CommandErr{}, cmd.replies[0])
}

func TestBridgeStateQuery(t *testing.T) {
	b, _, status, freq := newTestBridge()
	status.state = motion.AligningWithBeacon
	status.deferred = 2
	freq.hz = 1427.5
	cc := &testCtlCtx{}
	cmd := &fakeCommand{msg: &msgs.StateQuery{}}
	cc.store.AddMessages(&CommandMsg{Command: cmd})

	require.NoError(t, b.handleCommands(cc))
	require.Len(t, cmd.replies, 1)
	reply, ok := cmd.replies[0].(*msgs.StateReply)
	require.True(t, ok)
	require.Equal(t, uint32(motion.AligningWithBeacon), reply.State)
	require.Equal(t, motion.AligningWithBeacon.String(), reply.Name)
	require.Equal(t, uint32(2), reply.Deferred)
	require.Equal(t, 1427.5, reply.BeaconHz)
}

func TestBridgeUnhandledCommandLeft(t *testing.T) {
	b, _, _, _ := newTestBridge()
	cc := &testCtlCtx{}
	cmd := &fakeCommand{msg: &msgs.CommandOK{}}
	cc.store.AddMessages(&CommandMsg{Command: cmd})

	require.NoError(t, b.handleCommands(cc))
	// Left for UnsupportedCommands at the idle level.
	require.Len(t, cc.store.msgs, 1)
	require.Empty(t, cmd.replies)
}

func TestBridgeObserveEvents(t *testing.T) {
	b, reg, _, _ := newTestBridge()
	cc := &testCtlCtx{}
	cc.store.AddMessages(
		&link.CommandMsg{Command: link.CmdSearchTape},
		&beacon.BeaconMsg{FrequencyHz: 1430},
		&motion.TapeMsg{},
	)

	require.NoError(t, b.observeEvents(cc))
	// Observation leaves every message for its consumer.
	require.Len(t, cc.store.msgs, 3)
	require.Equal(t, []fx.Message{
		&msgs.CommandEvent{Command: uint32(link.CmdSearchTape)},
		&msgs.BeaconEvent{FrequencyHz: 1430},
		&msgs.TapeEvent{},
	}, reg.events)
}

func TestBridgeReportOutcomes(t *testing.T) {
	b, reg, _, _ := newTestBridge()
	cc := &testCtlCtx{}
	cc.store.AddMessages(
		&motion.StateChangedMsg{From: motion.Stopped, To: motion.SimpleMoving, Cause: "command"},
		&motion.ManeuverFailedMsg{State: motion.SearchingForTape, Reason: "timeout"},
	)

	require.NoError(t, b.reportOutcomes(cc))
	require.Empty(t, cc.store.msgs)
	require.Equal(t, []fx.Message{
		&msgs.StateEvent{From: uint32(motion.Stopped), To: uint32(motion.SimpleMoving), Cause: "command"},
		&msgs.FailureEvent{State: uint32(motion.SearchingForTape), Reason: "timeout"},
	}, reg.events)
}
