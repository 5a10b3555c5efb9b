// Package fir designs and runs finite-impulse-response filters for recorded
// channels.
//
// A [Bandpass] derives its length from the sampling frequency and the
// transition bandwidth, designs windowed-sinc coefficients for a pass band and
// applies them as a zero-phase ("same" mode) convolution so the output lines
// up sample for sample with the input:
//
//	bp, err := fir.NewBandpass(256, 0.5)
//	err = bp.DesignBandpass(1, 30)
//	filtered, err := bp.Apply(channel)
//
// A [Filter] is the streaming runtime: it applies a fixed coefficient set to
// an input stream through a circular-buffer delay line and is causal, so its
// output lags by [Filter.Delay] samples.
package fir
