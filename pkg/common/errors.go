package common

import "errors"

var (
	// ErrInvalidConfiguration is returned when the dataset string is missing
	// or one of its tokens is not a well-formed integer.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOutOfMemory is returned when an accounted allocation is refused.
	ErrOutOfMemory = errors.New("out of memory")
)
