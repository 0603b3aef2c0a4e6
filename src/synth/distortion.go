package synth

import "math"

// ----- Wave Shaper ----- //

const distortionCurveSize = 44100
const distortionOversample = 4

// waveShaper applies a static soft-clipping lookup curve with 4x oversampled
// evaluation. Regenerating the curve is cheap relative to the audio callback
// rate, so every effects update rebuilds it from scratch.
type waveShaper struct {
	curve    []float64
	identity bool
	prev     float64
}

func newWaveShaper() *waveShaper {
	w := &waveShaper{curve: make([]float64, distortionCurveSize)}
	w.setAmount(0)
	return w
}

// setAmount rebuilds the curve. Amount 0 is a true bypass: the identity
// mapping, not a degenerate soft clip.
func (w *waveShaper) setAmount(amount float64) {
	w.identity = amount <= 0
	makeDistortionCurve(amount, w.curve)
}

func makeDistortionCurve(amount float64, curve []float64) {
	n := len(curve)
	if amount <= 0 {
		for i := 0; i < n; i++ {
			curve[i] = 2*float64(i)/float64(n) - 1
		}
		return
	}
	deg := 20 * math.Pi / 180
	for i := 0; i < n; i++ {
		x := 2*float64(i)/float64(n) - 1
		curve[i] = (3 + amount) * x * deg / (math.Pi + amount*math.Abs(x))
	}
}

func (w *waveShaper) lookup(x float64) float64 {
	x = clampFloat(x, -1, 1)
	pos := (x + 1) / 2 * float64(len(w.curve)-1)
	i := int(pos)
	if i >= len(w.curve)-1 {
		return w.curve[len(w.curve)-1]
	}
	frac := pos - float64(i)
	return w.curve[i]*(1-frac) + w.curve[i+1]*frac
}

// step shapes one sample. The oversampled path evaluates the curve on a
// linear interpolation between the previous and current input samples and
// averages the results, which keeps the knee's aliasing down without a full
// resampling stage.
func (w *waveShaper) step(x float64) float64 {
	if w.identity {
		w.prev = x
		return x
	}
	sum := 0.0
	for k := 1; k <= distortionOversample; k++ {
		t := float64(k) / distortionOversample
		sub := w.prev*(1-t) + x*t
		sum += w.lookup(sub)
	}
	w.prev = x
	return sum / distortionOversample
}
