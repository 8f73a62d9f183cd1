package hist

import "errors"

var (
	// ErrArityMismatch is returned when the number of coordinates or
	// indices does not match the number of axes.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrIndexOutOfRange is returned by sized storage for indices outside
	// [0, Size()).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrShapeMismatch is returned when merging histograms with different
	// binning.
	ErrShapeMismatch = errors.New("shape mismatch")
)
