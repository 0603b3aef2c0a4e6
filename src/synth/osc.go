package synth

import (
	"math"
	"math/rand"
)

// ----- OSC ----- //

// osc is a naive phase-accumulating oscillator, used both as the audible
// carrier of a voice and as its LFO.
type osc struct {
	kind  WaveKind
	freq  float64
	phase float64
}

func newOsc(kind WaveKind, freq float64) *osc {
	return &osc{
		kind:  kind,
		freq:  freq,
		phase: rand.Float64() * 2.0 * math.Pi,
	}
}

// step produces one sample and advances the phase. freqRatio scales the base
// frequency for the duration of this sample (pitch modulation).
func (o *osc) step(freqRatio float64) float64 {
	value := 0.0
	switch o.kind {
	case WaveSine:
		value = math.Sin(o.phase)
	case WaveSquare:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = 1
		} else {
			value = -1
		}
	case WaveSawtooth:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		value = p*2 - 1
	case WaveTriangle:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = p*4 - 1
		} else {
			value = p*(-4) + 3
		}
	}
	o.phase += 2.0 * math.Pi * o.freq * freqRatio / float64(sampleRate)
	if o.phase > 2.0*math.Pi {
		o.phase -= 2.0 * math.Pi
	}
	return value
}

func positiveMod(a float64, b float64) float64 {
	if b < 0 {
		panic("b should not be negative")
	}
	for a < 0 {
		a += b
	}
	return math.Mod(a, b)
}

// NoteToFreq maps a MIDI note number to its equal-tempered frequency.
func NoteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}
