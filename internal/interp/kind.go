package interp

import "fmt"

// Kind selects a 1D interpolation variant.
type Kind int

const (
	// Linear is piecewise linear interpolation, C0.
	Linear Kind = iota
	// Cubic is a natural cubic spline, C2.
	Cubic
	// Akima is the non-rounded Akima spline, local and C1.
	Akima
	// AkimaPeriodic is the Akima spline with periodic boundary conditions.
	AkimaPeriodic
	// Steffen is the monotone C1 spline of Steffen, free of overshoots.
	Steffen
)

// ParseKind maps a selector string onto a [Kind].
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Linear":
		return Linear, nil
	case "Cubic":
		return Cubic, nil
	case "Akima":
		return Akima, nil
	case "AkimaPeriodic":
		return AkimaPeriodic, nil
	case "Steffen":
		return Steffen, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}

func (k Kind) String() string {
	switch k {
	case Linear:
		return "Linear"
	case Cubic:
		return "Cubic"
	case Akima:
		return "Akima"
	case AkimaPeriodic:
		return "AkimaPeriodic"
	case Steffen:
		return "Steffen"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MinPoints is the smallest abscissa length the variant accepts.
func (k Kind) MinPoints() int {
	switch k {
	case Linear:
		return 2
	case Cubic, Steffen:
		return 3
	case Akima, AkimaPeriodic:
		return 5
	}
	return 2
}

// Periodic reports whether the variant wraps queries modulo the data period.
func (k Kind) Periodic() bool {
	return k == AkimaPeriodic
}

// Kind2D selects a 2D interpolation variant.
type Kind2D int

const (
	// Bilinear is the tensor-product linear interpolant.
	Bilinear Kind2D = iota
	// Bicubic is the tensor-product cubic interpolant with spline-derived
	// node partials.
	Bicubic
)

// ParseKind2D maps a selector string onto a [Kind2D].
func ParseKind2D(s string) (Kind2D, error) {
	switch s {
	case "Bilinear":
		return Bilinear, nil
	case "Bicubic":
		return Bicubic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}

func (k Kind2D) String() string {
	switch k {
	case Bilinear:
		return "Bilinear"
	case Bicubic:
		return "Bicubic"
	}
	return fmt.Sprintf("Kind2D(%d)", int(k))
}

// MinPoints is the smallest grid length per axis the variant accepts.
func (k Kind2D) MinPoints() int {
	switch k {
	case Bilinear:
		return 2
	case Bicubic:
		return 4
	}
	return 2
}
