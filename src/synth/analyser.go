package synth

import "sync"

// ----- Analyser ----- //

// Analyser is the analysis tap at the end of the effects chain. The
// oscilloscope reads it on its own redraw cadence, independent of both the
// control thread and the audio pull, so it carries its own lock; writers take
// it once per cycle, not per sample.
type Analyser struct {
	mu       sync.Mutex
	ring     []float64
	pos      int
	fft      *fft
	fftInput []float64
}

func newAnalyser() *Analyser {
	return &Analyser{
		ring:     make([]float64, fftSize),
		fft:      newFFT(fftSize, false),
		fftInput: make([]float64, fftSize),
	}
}

func (a *Analyser) write(block []float64) {
	a.mu.Lock()
	for _, v := range block {
		a.ring[a.pos] = v
		a.pos++
		if a.pos >= len(a.ring) {
			a.pos = 0
		}
	}
	a.mu.Unlock()
}

// TimeDomain fills dst with the most recent samples, oldest first. dst must
// be at most fftSize long.
func (a *Analyser) TimeDomain(dst []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start := a.pos - len(dst)
	for i := range dst {
		j := start + i
		if j < 0 {
			j += len(a.ring)
		}
		dst[i] = a.ring[j]
	}
}

// FFT returns the magnitude spectrum of the last fftSize samples, Hann
// windowed and normalized, up to the Nyquist bin.
func (a *Analyser) FFT() []float64 {
	a.mu.Lock()
	copy(a.fftInput, a.ring[a.pos:])
	copy(a.fftInput[len(a.ring)-a.pos:], a.ring[:a.pos])
	a.mu.Unlock()
	han(a.fftInput)
	a.fft.calcAbs(a.fftInput)
	for i, value := range a.fftInput {
		a.fftInput[i] = value * 2 / fftSize
	}
	return a.fftInput[:fftSize/2]
}
