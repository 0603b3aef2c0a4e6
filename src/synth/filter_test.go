package synth

import (
	"math"
	"testing"
)

// filterGainAt measures steady-state amplitude of a sine through the filter.
func filterGainAt(f *biquad, freq float64) float64 {
	peak := 0.0
	n := sampleRate // one second: long enough past the transient
	for i := 0; i < n; i++ {
		in := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		out := f.step(in)
		if i > n/2 && math.Abs(out) > peak {
			peak = math.Abs(out)
		}
	}
	return peak
}

func TestLowpassPassesLowFrequencies(t *testing.T) {
	f := newBiquad(2000, 1)
	gain := filterGainAt(f, 100)
	expectWithin(t, gain, 1, 0.05)
}

func TestLowpassAttenuatesHighFrequencies(t *testing.T) {
	f := newBiquad(500, 1)
	gain := filterGainAt(f, 8000)
	if gain > 0.05 {
		t.Errorf("expected strong attenuation four octaves above cutoff, gain=%v", gain)
	}
}

func TestFilterClampsDegenerateSettings(t *testing.T) {
	f := newBiquad(0, -5) // clamped instead of producing NaN coefficients
	out := f.step(1)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		t.Errorf("expected a finite sample, got %v", out)
	}
	f2 := newBiquad(1e9, 1)
	out2 := f2.step(1)
	if math.IsNaN(out2) || math.IsInf(out2, 0) {
		t.Errorf("expected a finite sample, got %v", out2)
	}
}

func TestFilterUpdateSkipsTinyMoves(t *testing.T) {
	f := newBiquad(1000, 1)
	b0 := f.b0
	f.update(1000.001, 1)
	expectNearlyEqual(t, f.b0, b0) // below the rebuild epsilon
	f.update(2000, 1)
	if f.b0 == b0 {
		t.Errorf("expected a coefficient rebuild after a real cutoff move")
	}
}

func TestClampFloat(t *testing.T) {
	expectNearlyEqual(t, clampFloat(0.5, 0, 1), 0.5)
	expectNearlyEqual(t, clampFloat(-2, 0, 1), 0)
	expectNearlyEqual(t, clampFloat(3, 0, 1), 1)
}
