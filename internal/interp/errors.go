package interp

import "errors"

// Construction and evaluation errors.
var (
	// ErrInsufficientPoints indicates fewer data points than the variant minimum.
	ErrInsufficientPoints = errors.New("interp: not enough data points for interpolation type")

	// ErrNonMonotone indicates an abscissa that is not strictly increasing.
	ErrNonMonotone = errors.New("interp: abscissa is not strictly increasing")

	// ErrNonPeriodic indicates periodic interpolation over data whose
	// endpoints do not match.
	ErrNonPeriodic = errors.New("interp: endpoint values do not match for periodic interpolation")

	// ErrMismatch indicates abscissa and ordinate arrays of different lengths.
	ErrMismatch = errors.New("interp: data array length mismatch")

	// ErrUnknownInterpolation indicates a selector outside the supported set.
	ErrUnknownInterpolation = errors.New("interp: unknown interpolation type")

	// ErrDomain indicates a checked query outside [xmin, xmax].
	ErrDomain = errors.New("interp: query point outside interpolation domain")
)
