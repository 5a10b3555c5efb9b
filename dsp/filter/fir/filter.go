package fir

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Filter is a streaming direct-form FIR filter. The delay line holds every
// input twice, so the newest len(coeffs) inputs are always one contiguous
// slice, newest first.
type Filter struct {
	coeffs []float64
	delay  []float64
	pos    int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []float64) *Filter {
	return &Filter{
		coeffs: append([]float64(nil), coeffs...),
		delay:  make([]float64, 2*len(coeffs)),
	}
}

// ProcessSample pushes x into the delay line and returns
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.coeffs)
	if n == 0 {
		return 0
	}

	if f.pos == 0 {
		f.pos = n
	}
	f.pos--
	f.delay[f.pos] = x
	f.delay[f.pos+n] = x

	var y float64
	for k, past := range f.delay[f.pos : f.pos+n] {
		y += f.coeffs[k] * past
	}
	return y
}

// ProcessBlockTo filters src into dst, continuing from the current state. It
// returns ErrLengthMismatch when the slices differ in length.
func (f *Filter) ProcessBlockTo(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
	return nil
}

// Reset clears the delay line to zero.
func (f *Filter) Reset() {
	clear(f.delay)
	f.pos = 0
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// Delay returns the group delay in samples of a linear-phase coefficient set.
func (f *Filter) Delay() int {
	return max(0, f.Order()/2)
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	return append([]float64(nil), f.coeffs...)
}

// Response computes the complex frequency response H(e^{-jw}) at the given
// frequency (Hz) and sample rate (Hz).
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	return response(f.coeffs, freqHz, sampleRate)
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (f *Filter) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freqHz, sampleRate)))
}

func response(coeffs []float64, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var h complex128
	for k, c := range coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}
