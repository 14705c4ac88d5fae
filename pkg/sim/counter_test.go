package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/beacon"
)

func TestVirtualCounterWrap(t *testing.T) {
	var ctr VirtualCounter
	require.False(t, ctr.Advance(0xfff0))
	require.False(t, ctr.OverflowPending())
	require.True(t, ctr.Advance(0x20))
	require.True(t, ctr.OverflowPending())
	require.Equal(t, uint16(0x0010), ctr.Read())
	ctr.ClearOverflow()
	require.False(t, ctr.OverflowPending())
}

func TestEmitterSpacing(t *testing.T) {
	cfg := *beacon.NewConfig()
	cfg.TimerPrescale = 1
	var ctr VirtualCounter
	det := beacon.NewDetector(cfg, &ctr)
	e := NewEmitter(&ctr, det, cfg, cfg.TargetHz)
	// 20e6 / (1427 * 16), rounded.
	require.Equal(t, uint32(876), e.spacing)
	require.InDelta(t, cfg.TargetHz, cfg.Frequency(float64(e.spacing)), 1.0)
}

func TestEmitterTimestampsAcrossWrap(t *testing.T) {
	var ctr VirtualCounter
	timer := beacon.NewEdgeTimer(&ctr)
	est := beacon.NewEstimator(beacon.Config{
		BusClockHz:     beacon.DefaultBusClockHz,
		TimerPrescale:  1,
		CaptureDivisor: beacon.DefaultCaptureDivisor,
		TargetHz:       beacon.DefaultTargetHz,
		ToleranceHz:    beacon.DefaultToleranceHz,
	})
	const spacing = 876
	var last beacon.Ticks
	for i := 0; i < 200; i++ {
		ctr.Advance(spacing)
		ts := timer.OnEdge()
		if i > 0 {
			require.Equal(t, beacon.Ticks(spacing), ts-last, "edge %d", i)
		}
		last = ts
		est.OnEdge(ts)
	}
	require.True(t, est.InBand())
}
