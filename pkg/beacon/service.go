package beacon

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// ReportInterval is how often the current frequency estimate is
// logged.
const ReportInterval = 100 * time.Millisecond

// EdgeMsg carries one 32-bit edge timestamp into the control loop.
type EdgeMsg struct {
	Timestamp Ticks
}

// NewMessage implements Message.
func (m *EdgeMsg) NewMessage() fx.Message { return &EdgeMsg{} }

// BeaconMsg is added when the frequency estimate enters the target
// band. Repeated emissions while locked on are expected; consumers
// must treat them idempotently.
type BeaconMsg struct {
	FrequencyHz float64
}

// NewMessage implements Message.
func (m *BeaconMsg) NewMessage() fx.Message { return &BeaconMsg{} }

// Detector wires an EdgeTimer and Estimator into the control loop.
// CaptureEdge and CounterOverflow are the entry points for the edge
// source; the sense-level controller drains EdgeMsgs and adds a
// BeaconMsg for in-band estimates.
type Detector struct {
	cfg        Config
	timer      *EdgeTimer
	est        *Estimator
	lastReport time.Time
}

// NewDetector creates a Detector reading edges from ctr.
func NewDetector(cfg Config, ctr Counter16) *Detector {
	return &Detector{
		cfg:   cfg,
		timer: NewEdgeTimer(ctr),
		est:   NewEstimator(cfg),
	}
}

// CaptureEdge timestamps one qualifying edge and posts it into the
// loop. Called from the edge source, outside the loop.
func (d *Detector) CaptureEdge(ctl fx.LoopControl) {
	ctl.PostMessage(&EdgeMsg{Timestamp: d.timer.OnEdge()})
	ctl.TriggerNext()
}

// CounterOverflow records one wrap of the 16-bit counter. Called
// from the counter source, outside the loop.
func (d *Detector) CounterOverflow() {
	d.timer.OnOverflow()
}

// Frequency returns the current frequency estimate in Hz.
func (d *Detector) Frequency() float64 {
	return d.est.Frequency()
}

// AddToLoop implements LoopAdder.
func (d *Detector) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, d)
}

// Control implements Controller.
func (d *Detector) Control(ctx fx.ControlContext) error {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(
		func(mc fx.MessageProcessingContext) {
			msg, ok := mc.CurrentMessage().(*EdgeMsg)
			if !ok {
				return
			}
			mc.MessageTaken()
			if d.est.OnEdge(msg.Timestamp) == 0 {
				return
			}
			if hz := d.est.Frequency(); d.cfg.InBand(hz) {
				mc.AddMessages(&BeaconMsg{FrequencyHz: hz})
			}
		}))
	if now := ctx.Time(); now.Sub(d.lastReport) >= ReportInterval {
		d.lastReport = now
		glog.V(2).Infof("beacon: %.1f Hz", d.est.Frequency())
	}
	return nil
}
