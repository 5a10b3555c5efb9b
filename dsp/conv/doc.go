// Package conv provides the linear convolution routines used to apply FIR
// kernels to recorded channels.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// # Usage
//
// For one-shot convolution, use the simple functions:
//
//	full, err := conv.Convolve(signal, kernel)                  // len(signal)+len(kernel)-1
//	same, err := conv.ConvolveMode(signal, kernel, conv.ModeSame) // len(signal), kernel centred
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	c, err := conv.NewOverlapAdd(kernel, blockSize)
//	result, err := c.Process(signal)
//
// # Algorithm Selection
//
// [Convolve] uses direct convolution for kernels up to 64 taps and overlap-add
// above that.
package conv
