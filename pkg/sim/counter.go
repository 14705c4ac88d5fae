package sim

import (
	"context"
	"time"

	"github.com/robotalks/rover.go/internal/syncutil"
	"github.com/robotalks/rover.go/pkg/beacon"
	fx "github.com/robotalks/rover.go/pkg/framework"
)

// VirtualCounter is the simulated 16-bit capture timer. It advances
// by explicit tick counts rather than wall time so edge timestamps
// stay exact no matter how edges are batched.
type VirtualCounter struct {
	lock     syncutil.Mutex
	value    uint32
	overflow bool
}

// Advance moves the counter forward and reports whether the low 16
// bits wrapped.
func (c *VirtualCounter) Advance(ticks uint32) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	wrapped := (c.value&0xffff)+ticks > 0xffff
	c.value += ticks
	if wrapped {
		c.overflow = true
	}
	return wrapped
}

// Read implements Counter16.
func (c *VirtualCounter) Read() uint16 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return uint16(c.value)
}

// OverflowPending implements Counter16.
func (c *VirtualCounter) OverflowPending() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.overflow
}

// ClearOverflow implements Counter16.
func (c *VirtualCounter) ClearOverflow() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.overflow = false
}

var _ beacon.Counter16 = (*VirtualCounter)(nil)

// Emitter defaults.
const (
	DefaultEmitInterval = 20 * time.Millisecond
	DefaultEmitBatch    = 16
)

// Emitter feeds the beacon detector with simulated capture edges at
// a configured signal frequency. Edges are emitted in batches on a
// real-time tick, but each edge advances the virtual counter by the
// exact per-capture spacing, so the estimator converges on
// FrequencyHz regardless of batching.
type Emitter struct {
	Counter     *VirtualCounter
	Detector    *beacon.Detector
	FrequencyHz float64
	Interval    time.Duration
	Batch       int
	// Gate, when set, suppresses edges while it reports false
	// (e.g. the sensor is not facing the tower).
	Gate func() bool

	spacing uint32
}

// NewEmitter creates an Emitter producing edges at hz.
func NewEmitter(ctr *VirtualCounter, det *beacon.Detector, cfg beacon.Config, hz float64) *Emitter {
	timerClock := float64(cfg.BusClockHz) / float64(cfg.TimerPrescale)
	return &Emitter{
		Counter:     ctr,
		Detector:    det,
		FrequencyHz: hz,
		Interval:    DefaultEmitInterval,
		Batch:       DefaultEmitBatch,
		spacing:     uint32(timerClock/(hz*float64(cfg.CaptureDivisor)) + 0.5),
	}
}

// AddToLoop implements LoopAdder.
func (e *Emitter) AddToLoop(l *fx.Loop) {
	l.AddRunnable(e)
}

// Run implements Runnable.
func (e *Emitter) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if e.Gate != nil && !e.Gate() {
				continue
			}
			for i := 0; i < e.Batch; i++ {
				wrapped := e.Counter.Advance(e.spacing)
				e.Detector.CaptureEdge(ctl)
				if wrapped {
					// The overflow interrupt may trail the capture;
					// pre-resolution in the edge timer keeps the
					// timestamp consistent either way.
					e.Detector.CounterOverflow()
				}
			}
		}
	}
}
