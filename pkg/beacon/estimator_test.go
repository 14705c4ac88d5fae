package beacon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimatorInterval(t *testing.T) {
	testCases := []struct {
		name   string
		last   Ticks
		ts     Ticks
		expect float64
	}{
		{name: "forward", last: 1000, ts: 1876, expect: 876},
		{name: "equal", last: 1000, ts: 1000, expect: 0},
		{name: "wraparound", last: 0xFFFFFF00, ts: 0x00000100, expect: 0x200},
		{name: "wrap to zero", last: TicksMax, ts: 0, expect: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEstimator(*NewConfig())
			e.OnEdge(tc.last)
			require.Equal(t, tc.expect, e.OnEdge(tc.ts))
		})
	}
}

func TestEstimatorSmoothingConverges(t *testing.T) {
	e := NewEstimator(*NewConfig())
	var ts Ticks
	e.OnEdge(ts)
	// Step change from 800 to 900 tick intervals; the filter must
	// converge back onto the constant interval.
	for i := 0; i < 10; i++ {
		ts += 800
		e.OnEdge(ts)
	}
	require.Equal(t, float64(800), e.Smoothed())
	for i := 0; i < 200; i++ {
		ts += 900
		e.OnEdge(ts)
	}
	require.InDelta(t, 900, e.Smoothed(), 1e-6)
}

func TestEstimatorSmoothingRatio(t *testing.T) {
	e := NewEstimator(*NewConfig())
	e.OnEdge(0)
	require.Equal(t, float64(600), e.OnEdge(600))
	// One 1200-tick sample against a 600-tick history: (1200+5*600)/6.
	require.Equal(t, float64(700), e.OnEdge(1800))
}

func TestConfigFrequency(t *testing.T) {
	cfg := *NewConfig()
	require.Equal(t, float64(0), cfg.Frequency(0))
	// timerClock = 20e6/256 = 78125 Hz; Hz = 78125/(smoothed*16).
	require.InDelta(t, 3.5641, cfg.Frequency(1370), 0.001)
	require.InDelta(t, 4882.8125, cfg.Frequency(1), 1e-9)

	inBand := 78125.0 / (1427 * 16)
	require.InDelta(t, 1427, cfg.Frequency(inBand), 1e-9)
	require.True(t, cfg.InBand(cfg.Frequency(inBand)))
	require.False(t, cfg.InBand(cfg.Frequency(inBand*2)))
	require.True(t, cfg.InBand(1427-50))
	require.True(t, cfg.InBand(1427+50))
	require.False(t, cfg.InBand(1427+50.1))
}

func TestEstimatorInBand(t *testing.T) {
	// Prescale 1 puts the 1427 Hz beacon at 876.9 ticks between
	// captures with divisor 16.
	cfg := *NewConfig()
	cfg.TimerPrescale = 1

	e := NewEstimator(cfg)
	var ts Ticks
	e.OnEdge(ts)
	for i := 0; i < 50; i++ {
		ts += 876
		e.OnEdge(ts)
	}
	require.InDelta(t, 1427, e.Frequency(), 2)
	require.True(t, e.InBand())
}
