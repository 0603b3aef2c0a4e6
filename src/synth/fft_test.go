package synth

import (
	"math"
	"testing"
)

func TestBitreverse(t *testing.T) {
	expectEqual(t, bitReverse(0, 8), 0)
	expectEqual(t, bitReverse(1, 8), 4)
	expectEqual(t, bitReverse(2, 8), 2)
	expectEqual(t, bitReverse(3, 8), 6)
	expectEqual(t, bitReverse(4, 8), 1)
	expectEqual(t, bitReverse(5, 8), 5)
	expectEqual(t, bitReverse(6, 8), 3)
	expectEqual(t, bitReverse(7, 8), 7)
}

func TestFFT(t *testing.T) {
	f := newFFT(8, false)
	data := []float64{0, 0.25, 0.5, 0.75, 1.0, 0.75, 0.5, 0.25}
	x := make([]complex128, 8)
	for i, v := range data {
		x[i] = complex(v, 0)
	}
	f.calc(x)
	sqrt2 := math.Sqrt(2)
	expected := []float64{
		4,
		-(1 + sqrt2/2),
		0,
		-(1 - sqrt2/2),
		0,
		-(1 - sqrt2/2),
		0,
		-(1 + sqrt2/2),
	}
	for i, want := range expected {
		expectNearlyEqual(t, real(x[i]), want)
		expectNearlyEqual(t, imag(x[i]), 0)
	}
}

func TestInverseFFTRoundTrip(t *testing.T) {
	forward := newFFT(8, false)
	backward := newFFT(8, true)
	data := []float64{0.1, -0.5, 0.9, 0.3, -0.2, 0.7, -0.8, 0.4}
	x := make([]complex128, 8)
	for i, v := range data {
		x[i] = complex(v, 0)
	}
	forward.calc(x)
	backward.calc(x)
	for i, v := range data {
		expectNearlyEqual(t, real(x[i]), v)
		expectNearlyEqual(t, imag(x[i]), 0)
	}
}

func TestCalcAbs(t *testing.T) {
	f := newFFT(8, false)
	// a full-scale cosine at bin 1 concentrates n/2 in bins 1 and 7
	x := make([]float64, 8)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * float64(i) / 8)
	}
	f.calcAbs(x)
	expectNearlyEqual(t, x[0], 0)
	expectNearlyEqual(t, x[1], 4)
	expectNearlyEqual(t, x[2], 0)
	expectNearlyEqual(t, x[7], 4)
}

func TestHanWindow(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	han(data)
	expectNearlyEqual(t, data[0], 0)
	expectNearlyEqual(t, data[4], 1)
	expectNearlyEqual(t, data[2], 0.5)
	expectNearlyEqual(t, data[6], 0.5)
}
