package synth

import "math"

// ----- Biquad Lowpass ----- //

// biquad is a two-pole lowpass with coefficients from RBJ's cookbook. The
// coefficients are rebuilt lazily when cutoff or Q move past a small epsilon,
// so smoothed parameter ramps do not pay a recompute on every sample.
type biquad struct {
	freq float64
	q    float64
	b0   float64
	b1   float64
	b2   float64
	a1   float64
	a2   float64
	x1   float64
	x2   float64
	y1   float64
	y2   float64
}

func newBiquad(freq float64, q float64) *biquad {
	f := &biquad{}
	f.update(freq, q)
	return f
}

const filterCoeffEpsilon = 0.01

func (f *biquad) update(freq float64, q float64) {
	freq = clampFloat(freq, 10, float64(sampleRate)*0.49)
	if q < 0.01 {
		q = 0.01
	}
	if math.Abs(freq-f.freq) < filterCoeffEpsilon && math.Abs(q-f.q) < filterCoeffEpsilon {
		return
	}
	f.freq = freq
	f.q = q
	// from RBJ's cookbook
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 - math.Cos(w0)) / 2
	b1 := 1 - math.Cos(w0)
	b2 := (1 - math.Cos(w0)) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

func (f *biquad) step(in float64) float64 {
	out := f.b0*in + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2 = f.x1
	f.x1 = in
	f.y2 = f.y1
	f.y1 = out
	return out
}

func clampFloat(v float64, lo float64, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
