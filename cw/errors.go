package cw

import "errors"

var (
	// ErrConfig reports a non-positive confidence or iteration count.
	ErrConfig = errors.New("invalid configuration")
	// ErrIO reports a model or dataset file that cannot be opened, read or written.
	ErrIO = errors.New("i/o failure")
	// ErrFormat reports truncated or corrupt model bytes.
	ErrFormat = errors.New("malformed model data")
	// ErrScore reports a margin that cannot be assigned to a contingency bucket.
	ErrScore = errors.New("unclassifiable score")
	// ErrLabel reports a label other than +1 or -1.
	ErrLabel = errors.New("label is not +1 nor -1")
	// ErrIndex reports a negative feature index.
	ErrIndex = errors.New("negative feature index")
	// ErrNumeric reports a degenerate step size in strict mode.
	ErrNumeric = errors.New("degenerate step size")
)
