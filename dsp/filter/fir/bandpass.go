package fir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-adf/dsp/conv"
	"github.com/cwbudde/algo-adf/dsp/window"
)

// minHalfLength is the smallest number of taps on each side of the centre.
const minHalfLength = 4

// Option configures a Bandpass designer.
type Option func(*bandpassConfig)

type bandpassConfig struct {
	window window.Type
	opts   []window.Option
	causal bool
}

// WithWindow selects the taper applied to the ideal sinc response.
// The default is Hamming.
func WithWindow(t window.Type, opts ...window.Option) Option {
	return func(c *bandpassConfig) {
		c.window = t
		c.opts = opts
	}
}

// WithCausal makes Apply run the filter forward in time like the streaming
// runtime: each output depends only on past inputs and lags by half the
// filter length.
func WithCausal() Option {
	return func(c *bandpassConfig) {
		c.causal = true
	}
}

// Bandpass designs and applies a linear-phase bandpass filter. Its length
// is fixed at construction from the sampling frequency and the transition
// bandwidth; DesignBandpass may be called any number of times.
type Bandpass struct {
	sampleRate float64
	transition float64
	half       int
	cfg        bandpassConfig
	coeffs     []float64
	rt         *Filter
}

// NewBandpass returns a designer for signals sampled at sampleRate Hz with the
// given transition bandwidth in Hz. Narrower transitions give longer filters.
func NewBandpass(sampleRate, transition float64, opts ...Option) (*Bandpass, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sampling frequency %g", ErrInvalidParameter, sampleRate)
	}
	if !(transition > 0) || math.IsInf(transition, 0) {
		return nil, fmt.Errorf("%w: transition bandwidth %g", ErrInvalidParameter, transition)
	}

	cfg := bandpassConfig{window: window.TypeHamming}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Bandpass{
		sampleRate: sampleRate,
		transition: transition,
		half:       halfLength(sampleRate, transition),
		cfg:        cfg,
	}, nil
}

// AutoOrder returns the number of taps NewBandpass would choose for the
// given sampling frequency and transition bandwidth.
func AutoOrder(sampleRate, transition float64) int {
	return 2*halfLength(sampleRate, transition) + 1
}

// AutoBandwidth picks a transition bandwidth for a pass band [low, high]:
// a quarter of the edge frequency, at least 2 Hz, never wider than the
// distance from the edge to 0 or to Nyquist. The narrower of the two edges
// is returned. An edge at 0 or at Nyquist has no transition and is ignored;
// when both are, the result is 2 Hz, capped at Nyquist.
func AutoBandwidth(sampleRate, low, high float64) float64 {
	nyquist := sampleRate / 2
	trans := math.Inf(1)
	if low > 0 {
		trans = math.Min(math.Max(0.25*low, 2), low)
	}
	if high < nyquist {
		trans = math.Min(trans, math.Min(math.Max(0.25*high, 2), nyquist-high))
	}
	if math.IsInf(trans, 1) {
		return math.Min(2, nyquist)
	}
	return trans
}

func halfLength(sampleRate, transition float64) int {
	m := 4 / (transition / sampleRate)
	full := minHalfLength * 2
	if m < float64(math.MaxInt32) {
		full = max(full, int(m))
	} else {
		full = math.MaxInt32
	}
	if full%2 != 0 {
		full++
	}
	return full / 2
}

// SampleRate returns the sampling frequency the designer was created for.
func (b *Bandpass) SampleRate() float64 { return b.sampleRate }

// TransitionBandwidth returns the transition bandwidth in Hz.
func (b *Bandpass) TransitionBandwidth() float64 { return b.transition }

// Order returns the number of coefficients, always odd.
func (b *Bandpass) Order() int {
	return 2*b.half + 1
}

// Designed reports whether DesignBandpass has succeeded at least once.
func (b *Bandpass) Designed() bool {
	return b.coeffs != nil
}

// DesignBandpass computes coefficients passing [low, high] Hz. A failed
// design leaves the previous coefficients in place.
func (b *Bandpass) DesignBandpass(low, high float64) error {
	nyquist := b.sampleRate / 2
	if math.IsNaN(low) || math.IsNaN(high) || low < 0 || high > nyquist || low >= high {
		return fmt.Errorf("%w: band [%g, %g] with Nyquist %g", ErrInvalidParameter, low, high, nyquist)
	}

	// A lowpass at Nyquist-high, mirrored in frequency, is a highpass at high.
	h := b.lowpass((nyquist - high) / b.sampleRate)
	for n := -b.half; n <= b.half; n++ {
		if n%2 != 0 {
			h[n+b.half] = -h[n+b.half]
		}
	}

	// Lowpass(low) + highpass(high) is a band-stop; its complement is the band-pass.
	lp := b.lowpass(low / b.sampleRate)
	for i := range h {
		h[i] = -(h[i] + lp[i])
	}
	h[b.half]++

	b.coeffs = h
	b.rt = New(h)
	return nil
}

// lowpass returns a windowed-sinc lowpass with cutoff fc given as a fraction
// of the sampling frequency, scaled to unit gain at DC.
func (b *Bandpass) lowpass(fc float64) []float64 {
	h := make([]float64, b.Order())
	h[b.half] = 2 * math.Pi * fc
	for n := 1; n <= b.half; n++ {
		v := math.Sin(2*math.Pi*fc*float64(n)) / float64(n)
		h[b.half+n] = v
		h[b.half-n] = v
	}
	window.Apply(b.cfg.window, h, b.cfg.opts...)

	var sum float64
	for _, v := range h {
		sum += v
	}
	if sum != 0 {
		for i := range h {
			h[i] /= sum
		}
	}
	return h
}

// Apply filters signal and returns a new slice of the same length. The
// filter is centred on each output sample, so the result has no phase lag;
// with WithCausal the output instead lags by Order()/2 samples. Samples
// beyond either end of the input are taken as zero. Apply is not safe for
// concurrent use with a causal designer.
func (b *Bandpass) Apply(signal []float64) ([]float64, error) {
	if b.coeffs == nil {
		return nil, ErrNotDesigned
	}
	if len(signal) == 0 {
		return []float64{}, nil
	}
	if b.cfg.causal {
		out := make([]float64, len(signal))
		b.rt.Reset()
		if err := b.rt.ProcessBlockTo(out, signal); err != nil {
			return nil, err
		}
		return out, nil
	}

	out, err := conv.ConvolveMode(signal, b.coeffs, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("fir: apply: %w", err)
	}
	return out, nil
}

// Coefficients returns a copy of the designed coefficients, or nil before
// the first design.
func (b *Bandpass) Coefficients() []float64 {
	if b.coeffs == nil {
		return nil
	}
	return append([]float64(nil), b.coeffs...)
}

// Filter returns a streaming runtime for the designed coefficients.
func (b *Bandpass) Filter() (*Filter, error) {
	if b.coeffs == nil {
		return nil, ErrNotDesigned
	}
	return New(b.coeffs), nil
}
