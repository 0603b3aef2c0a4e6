package synth

import (
	"log"
	"math"
	"math/cmplx"
)

// ----- FFT ----- //

type fft struct {
	bitReverseTable []int
	wTable          []complex128
	inverse         bool
}

func newFFT(length int, inverse bool) *fft {
	return &fft{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		inverse:         inverse,
	}
}

func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}

func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}

func makeWTable(n int) []complex128 {
	array := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

func (f *fft) calc(x []complex128) {
	n := len(x)
	if n != len(f.bitReverseTable) {
		log.Fatalf("length should be %v", len(f.bitReverseTable))
	}
	for i := 0; i < n; i++ {
		rev := f.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			if f.inverse {
				idx = (n - idx) % n
			}
			w := f.wTable[idx]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
	if f.inverse {
		for i := 0; i < n; i++ {
			x[i] /= complex(float64(n), 0)
		}
	}
}

// calcAbs replaces x with the magnitude spectrum of x.
func (f *fft) calcAbs(x []float64) {
	n := len(x)
	cx := make([]complex128, n)
	for i := 0; i < n; i++ {
		cx[i] = complex(x[i], 0)
	}
	f.calc(cx)
	for i := 0; i < n; i++ {
		x[i] = cmplx.Abs(cx[i])
	}
}

// ----- Windows ----- //

func han(data []float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		w := 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
		data[i] = data[i] * w
	}
}
