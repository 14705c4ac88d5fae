package comm

import (
	"context"
	"time"

	"github.com/robotalks/rover.go/internal/syncutil"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/telemetry"
	"github.com/robotalks/rover.go/pkg/telemetry/msgs"
)

// ControllerConn provides base implementation for
// telemetry.ControllerConn using Pipe.
type ControllerConn struct {
	Expiration time.Duration

	pipe Pipe
	seq  uint32
	// commands is ordered by expiration, oldest first.
	commands []*commandFuture
	seqMap   map[uint32]*commandFuture
	lock     syncutil.Mutex
}

// DefaultCommandExpiration is the default expiration expecting a result.
const DefaultCommandExpiration = 1 * time.Second

// Init initializes ControllerConn with defaults.
func (c *ControllerConn) Init(rw PacketReadWriter) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.seqMap = make(map[uint32]*commandFuture)
}

// DoCommand implements ControllerConn.
func (c *ControllerConn) DoCommand(msg fx.Message) telemetry.CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan telemetry.Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.result <- telemetry.Result{Err: err}
		return f
	}
	c.commands = append(c.commands, f)
	c.seqMap[f.seq] = f
	return f
}

// AddToLoop implements LoopAdder.
func (c *ControllerConn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.purgeExpired))
}

func (c *ControllerConn) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		loopCtl := fx.LoopCtlFrom(ctx)
		loopCtl.PostMessage(msg)
		loopCtl.TriggerNext()
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	f := c.seqMap[typed.Sequence]
	if f == nil {
		return nil
	}
	c.remove(f)
	delete(c.seqMap, typed.Sequence)
	result := telemetry.Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

func (c *ControllerConn) purgeExpired(cc fx.ControlContext) error {
	now := time.Now()
	c.lock.Lock()
	defer c.lock.Unlock()
	for len(c.commands) > 0 {
		f := c.commands[0]
		if f.expireAt.After(now) {
			break
		}
		c.commands = c.commands[1:]
		delete(c.seqMap, f.seq)
		f.result <- telemetry.Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
	return nil
}

func (c *ControllerConn) remove(f *commandFuture) {
	for i, cmd := range c.commands {
		if cmd == f {
			c.commands = append(c.commands[:i], c.commands[i+1:]...)
			break
		}
	}
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	result   chan telemetry.Result
}

func (c *commandFuture) ResultChan() <-chan telemetry.Result {
	return c.result
}
