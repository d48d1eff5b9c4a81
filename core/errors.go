package core

import "errors"

// ErrInvalidInput marks data errors: a feature missing a required attribute,
// or a point missing its group key. Degenerate geometry is not an error; it
// simply yields no samples.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidParameter marks configuration errors such as a non-positive
// sampling interval or thinning radius.
var ErrInvalidParameter = errors.New("invalid parameter")
