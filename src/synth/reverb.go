package synth

import (
	"math"
	"math/rand"
)

// ----- Impulse Response ----- //

const reverbDuration = 2.0
const reverbDecay = 2.0

// makeImpulseResponse synthesizes one channel of a diffuse room response: an
// exponentially decaying burst of uniform noise. Each channel gets its own
// noise sequence, which is what makes the reverb tail stereo.
func makeImpulseResponse(duration float64, decay float64) []float64 {
	length := int(float64(sampleRate) * duration)
	impulse := make([]float64, length)
	for i := 0; i < length; i++ {
		envelope := math.Pow(1-float64(i)/float64(length), decay)
		impulse[i] = (rand.Float64()*2 - 1) * envelope
	}
	return impulse
}

// ----- Convolver ----- //

const convBlockSize = samplesPerCycle
const convFFTSize = convBlockSize * 2

// convolver performs uniform partitioned convolution: the impulse response is
// split into block-sized partitions held in the frequency domain, and each
// input block is multiplied against the whole partition set. The wet path
// therefore carries one block of latency, which is inaudible inside a reverb
// tail.
type convolver struct {
	forward    *fft
	backward   *fft
	partitions [][]complex128
	history    [][]complex128 // frequency-domain delay line, newest first
	histPos    int
	inBuf      []float64
	inLen      int
	outReady   []float64
	outPos     int
	overlap    []float64
	scratch    []complex128
	acc        []complex128
}

func newConvolver(impulse []float64) *convolver {
	c := &convolver{
		forward:  newFFT(convFFTSize, false),
		backward: newFFT(convFFTSize, true),
		inBuf:    make([]float64, convBlockSize),
		outReady: make([]float64, convBlockSize),
		overlap:  make([]float64, convBlockSize),
		scratch:  make([]complex128, convFFTSize),
		acc:      make([]complex128, convFFTSize),
	}
	for start := 0; start < len(impulse); start += convBlockSize {
		end := start + convBlockSize
		if end > len(impulse) {
			end = len(impulse)
		}
		part := make([]complex128, convFFTSize)
		for i, v := range impulse[start:end] {
			part[i] = complex(v, 0)
		}
		c.forward.calc(part)
		c.partitions = append(c.partitions, part)
	}
	c.history = make([][]complex128, len(c.partitions))
	for i := range c.history {
		c.history[i] = make([]complex128, convFFTSize)
	}
	return c
}

// step pushes one input sample and returns one wet sample.
func (c *convolver) step(in float64) float64 {
	out := c.outReady[c.outPos]
	c.inBuf[c.inLen] = in
	c.inLen++
	c.outPos++
	if c.inLen == convBlockSize {
		c.processBlock()
		c.inLen = 0
		c.outPos = 0
	}
	return out
}

func (c *convolver) processBlock() {
	for i := 0; i < convBlockSize; i++ {
		c.scratch[i] = complex(c.inBuf[i], 0)
		c.scratch[i+convBlockSize] = 0
	}
	c.forward.calc(c.scratch)

	c.histPos--
	if c.histPos < 0 {
		c.histPos = len(c.history) - 1
	}
	copy(c.history[c.histPos], c.scratch)

	for i := range c.acc {
		c.acc[i] = 0
	}
	for j, part := range c.partitions {
		h := c.history[(c.histPos+j)%len(c.history)]
		for k := 0; k < convFFTSize; k++ {
			c.acc[k] += h[k] * part[k]
		}
	}
	c.backward.calc(c.acc)
	for i := 0; i < convBlockSize; i++ {
		c.outReady[i] = real(c.acc[i]) + c.overlap[i]
		c.overlap[i] = real(c.acc[i+convBlockSize])
	}
}

// ----- Reverb ----- //

// reverb mixes a convolved wet path against the dry signal. Wet and dry are
// independently smoothed; the crossfade is deliberately approximate
// (dry = 1 - 0.4*mix) rather than exact equal-power.
type reverb struct {
	left  *convolver
	right *convolver
	wet   *automatedParam
	dry   *automatedParam
}

func newReverb() *reverb {
	return &reverb{
		left:  newConvolver(makeImpulseResponse(reverbDuration, reverbDecay)),
		right: newConvolver(makeImpulseResponse(reverbDuration, reverbDecay)),
		wet:   newParam(0),
		dry:   newParam(1),
	}
}

// step consumes one mono sample and produces a stereo pair.
func (r *reverb) step(in float64, pos int64) (float64, float64) {
	wet := r.wet.tick(pos)
	dry := r.dry.tick(pos)
	l := in*dry + r.left.step(in)*wet
	rr := in*dry + r.right.step(in)*wet
	return l, rr
}
