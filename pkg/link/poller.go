package link

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// DefaultPollInterval is the default leader polling period. It must
// be slower than the link round-trip; a command that changes and
// changes back between two polls is invisible.
const DefaultPollInterval = 500 * time.Millisecond

// Poller is the leader-side polling state machine. Each Poll
// performs one query exchange and interprets the flag/value framing;
// a fully framed, whitelisted command is reported once. Poller also
// implements Runnable to poll on a fixed period and post CommandMsg
// into the control loop.
type Poller struct {
	Exchanger Exchanger
	Interval  time.Duration

	sawFlag bool
	last    byte
}

// NewPoller creates a Poller over ex.
func NewPoller(ex Exchanger) *Poller {
	return &Poller{
		Exchanger: ex,
		Interval:  DefaultPollInterval,
		last:      FlagByte,
	}
}

// Poll performs one query/response exchange. ok is true only when a
// valid command byte arrived immediately after a flag byte and
// differs from the previously framed one.
func (p *Poller) Poll() (cmd Command, ok bool, err error) {
	b, err := p.Exchanger.Exchange(QueryByte)
	if err != nil {
		return 0, false, err
	}
	glog.V(3).Infof("link poll: 0x%02x", b)
	if b == FlagByte {
		p.sawFlag = true
		return 0, false, nil
	}
	if !p.sawFlag {
		// Steady-state repeat of an already framed command.
		return 0, false, nil
	}
	p.sawFlag = false
	if cmd = Command(b); !cmd.Valid() {
		glog.Errorf("link: invalid command byte 0x%02x discarded", b)
		p.last = FlagByte
		return 0, false, nil
	}
	ok = b != p.last
	// Reset the dedupe sentinel so an identical command after a fresh
	// flag is not suppressed indefinitely.
	p.last = FlagByte
	return cmd, ok, nil
}

// AddToLoop implements LoopAdder.
func (p *Poller) AddToLoop(l *fx.Loop) {
	l.AddRunnable(p)
}

// Run implements Runnable, polling the link periodically and posting
// CommandMsg for each framed command.
func (p *Poller) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	interval := p.Interval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cmd, ok, err := p.Poll()
			if err != nil {
				glog.Errorf("link poll error: %v", err)
				continue
			}
			if ok {
				glog.V(1).Infof("link: command %v", cmd)
				loopCtl.PostMessage(&CommandMsg{Command: cmd})
				loopCtl.TriggerNext()
			}
		}
	}
}
