package synth

import (
	"math"
	"testing"
)

func oscPeriodStats(kind WaveKind, freq float64) (min float64, max float64, mean float64) {
	o := newOsc(kind, freq)
	n := int(float64(sampleRate) / freq)
	min, max = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := o.step(1)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, sum / float64(n)
}

func TestOscWaveformsStayInRange(t *testing.T) {
	for _, kind := range []WaveKind{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle} {
		min, max, mean := oscPeriodStats(kind, 441)
		if min < -1.0001 || max > 1.0001 {
			t.Errorf("waveform %v out of range: [%v, %v]", kind, min, max)
		}
		if max-min < 1.5 {
			t.Errorf("waveform %v barely moves: [%v, %v]", kind, min, max)
		}
		expectWithin(t, mean, 0, 0.05) // one full period has no DC to speak of
	}
}

func TestOscFreqRatioDoublesPitch(t *testing.T) {
	a := &osc{kind: WaveSine, freq: 100}
	b := &osc{kind: WaveSine, freq: 200}
	for i := 0; i < 1000; i++ {
		va := a.step(2)
		vb := b.step(1)
		expectNearlyEqual(t, va, vb)
	}
}

func TestPositiveMod(t *testing.T) {
	expectNearlyEqual(t, positiveMod(0.5, 1), 0.5)
	expectNearlyEqual(t, positiveMod(1.5, 1), 0.5)
	expectNearlyEqual(t, positiveMod(-0.25, 1), 0.75)
}
