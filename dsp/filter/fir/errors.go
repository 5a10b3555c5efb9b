package fir

import "errors"

// Errors returned by the designer and the runtime.
var (
	ErrInvalidParameter = errors.New("fir: invalid parameter")
	ErrNotDesigned      = errors.New("fir: bandpass applied before design")
	ErrLengthMismatch   = errors.New("fir: buffer length mismatch")
)
