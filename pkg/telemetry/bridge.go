package telemetry

import (
	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/beacon"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/motion"
	"github.com/robotalks/rover.go/pkg/telemetry/msgs"
)

// StatusSource exposes the supervisor state for queries.
type StatusSource interface {
	State() motion.State
	Deferred() int
}

// FrequencySource exposes the current beacon frequency estimate.
type FrequencySource interface {
	Frequency() float64
}

// Bridge connects the control loop to remote operators: it executes
// received commands and forwards loop activity as events.
type Bridge struct {
	Registrar Registrar
	Status    StatusSource
	Beacon    FrequencySource
}

// NewBridge creates the Bridge.
func NewBridge(reg Registrar, status StatusSource, freq FrequencySource) *Bridge {
	return &Bridge{Registrar: reg, Status: status, Beacon: freq}
}

// AddToLoop implements LoopAdder. Event observation runs right after
// the sensing level so messages are seen before consumers take them.
func (b *Bridge) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense+1, fx.ControlFunc(b.observeEvents))
	l.AddController(fx.PrLvControl, fx.ControlFunc(b.handleCommands))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(b.reportOutcomes))
}

func (b *Bridge) handleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*CommandMsg)
		if !ok {
			return
		}
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.ManeuverCmd:
			mctx.MessageTaken()
			cmd := link.Command(m.Command)
			if !cmd.Valid() {
				b.done(cmdMsg.Command, msgs.NewCommandErr(msgs.ErrUnknownCommand))
				return
			}
			cc.PostMessage(&link.CommandMsg{Command: cmd})
			cc.TriggerNext()
			b.done(cmdMsg.Command, msgs.NewCommandOK())
		case *msgs.StateQuery:
			mctx.MessageTaken()
			state := b.Status.State()
			b.done(cmdMsg.Command, &msgs.StateReply{
				State:    uint32(state),
				Name:     state.String(),
				Deferred: uint32(b.Status.Deferred()),
				BeaconHz: b.Beacon.Frequency(),
			})
		}
	}))
	return nil
}

func (b *Bridge) observeEvents(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		// Observed only, consumers later in the iteration still
		// take these messages.
		switch m := mctx.CurrentMessage().(type) {
		case *link.CommandMsg:
			b.sendEvent(cc, &msgs.CommandEvent{Command: uint32(m.Command)})
		case *beacon.BeaconMsg:
			b.sendEvent(cc, &msgs.BeaconEvent{FrequencyHz: m.FrequencyHz})
		case *motion.TapeMsg:
			b.sendEvent(cc, &msgs.TapeEvent{})
		}
	}))
	return nil
}

func (b *Bridge) reportOutcomes(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch m := mctx.CurrentMessage().(type) {
		case *motion.StateChangedMsg:
			mctx.MessageTaken()
			b.sendEvent(cc, &msgs.StateEvent{
				From:  uint32(m.From),
				To:    uint32(m.To),
				Cause: m.Cause,
			})
		case *motion.ManeuverFailedMsg:
			mctx.MessageTaken()
			b.sendEvent(cc, &msgs.FailureEvent{
				State:  uint32(m.State),
				Reason: m.Reason,
			})
		}
	}))
	return nil
}

func (b *Bridge) sendEvent(cc fx.ControlContext, msg fx.Message) {
	if err := b.Registrar.SendEvent(cc.Context(), msg); err != nil {
		glog.Errorf("send event error: %v", err)
	}
}

func (b *Bridge) done(cmd Command, msg fx.Message) {
	if err := cmd.Done(msg); err != nil {
		glog.Errorf("command reply error: %v", err)
	}
}
