package equilibrium

import "errors"

// Input validation errors.
var (
	// ErrMalformedInput indicates a missing variable or a non-finite sample.
	ErrMalformedInput = errors.New("equilibrium: malformed input data")

	// ErrShapeMismatch indicates arrays whose dimensions disagree.
	ErrShapeMismatch = errors.New("equilibrium: array shape mismatch")
)
