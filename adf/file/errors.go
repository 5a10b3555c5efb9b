package file

import "errors"

var (
	ErrMalformedBlob       = errors.New("file: malformed blob")
	ErrDimensionMismatch   = errors.New("file: dimension mismatch")
	ErrChannelOutOfRange   = errors.New("file: channel out of range")
	ErrInvalidRange        = errors.New("file: invalid range")
	ErrIncompletePattern   = errors.New("file: incomplete pattern")
	ErrIncompleteStatement = errors.New("file: incomplete statement")
	ErrNoChannel           = errors.New("file: no such channel")
	ErrNoRecordingTime     = errors.New("file: no recording time")
)
