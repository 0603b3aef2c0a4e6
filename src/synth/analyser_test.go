package synth

import (
	"math"
	"testing"
)

func TestAnalyserTimeDomainOrdersSamples(t *testing.T) {
	a := newAnalyser()
	block := make([]float64, fftSize)
	for i := range block {
		block[i] = float64(i)
	}
	a.write(block[:samplesPerCycle])
	a.write(block[samplesPerCycle:])

	dst := make([]float64, 4)
	a.TimeDomain(dst)
	// oldest first, ending at the most recent sample
	expectNearlyEqual(t, dst[3], float64(fftSize-1))
	expectNearlyEqual(t, dst[0], float64(fftSize-4))
}

func TestAnalyserTimeDomainWrapsRing(t *testing.T) {
	a := newAnalyser()
	first := make([]float64, fftSize)
	for i := range first {
		first[i] = 1
	}
	a.write(first)
	a.write([]float64{5, 6, 7}) // overwrites the oldest entries

	dst := make([]float64, 5)
	a.TimeDomain(dst)
	expectNearlyEqual(t, dst[0], 1)
	expectNearlyEqual(t, dst[1], 1)
	expectNearlyEqual(t, dst[2], 5)
	expectNearlyEqual(t, dst[3], 6)
	expectNearlyEqual(t, dst[4], 7)
}

func TestAnalyserFFTFindsDominantBin(t *testing.T) {
	a := newAnalyser()
	block := make([]float64, fftSize)
	bin := 32
	freq := float64(bin) * sampleRate / fftSize
	for i := range block {
		block[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	a.write(block)

	spectrum := a.FFT()
	expectEqual(t, len(spectrum), fftSize/2)
	maxBin := 0
	for i, v := range spectrum {
		if v > spectrum[maxBin] {
			maxBin = i
		}
	}
	expectEqual(t, maxBin, bin)
}
