package interp

import (
	"fmt"
	"math"
)

// endpointTol is the relative tolerance for the periodic endpoint check.
const endpointTol = 1e-8

// interpolant evaluates precomputed coefficients on interval i.
type interpolant interface {
	eval(xs, ys []float64, i int, x float64) float64
	deriv(xs, ys []float64, i int, x float64) float64
	deriv2(xs, ys []float64, i int, x float64) float64
}

// Spline interpolates tabulated (x, y) data with a fixed variant.
//
// The spline owns its coefficient arrays but not the accelerator; every
// query takes an [Accel] supplied by the caller, which may be shared with
// sibling splines over the same abscissa. A nil accelerator falls back to a
// plain binary search.
type Spline struct {
	kind Kind
	xs   []float64
	ys   []float64
	coef interpolant
}

// New constructs a spline of the given variant over strictly increasing xs.
func New(kind Kind, xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrMismatch, len(xs), len(ys))
	}
	if len(xs) < kind.MinPoints() {
		return nil, fmt.Errorf("%w: %s needs %d points, got %d",
			ErrInsufficientPoints, kind, kind.MinPoints(), len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%v, x[%d]=%v", ErrNonMonotone, i-1, xs[i-1], i, xs[i])
		}
	}
	if kind.Periodic() {
		scale := math.Max(1, math.Abs(ys[0]))
		if math.Abs(ys[len(ys)-1]-ys[0]) > endpointTol*scale {
			return nil, fmt.Errorf("%w: y[0]=%v, y[n-1]=%v", ErrNonPeriodic, ys[0], ys[len(ys)-1])
		}
	}

	s := &Spline{
		kind: kind,
		xs:   append([]float64(nil), xs...),
		ys:   append([]float64(nil), ys...),
	}
	switch kind {
	case Linear:
		s.coef = linearInterp{}
	case Cubic:
		s.coef = newCubic(s.xs, s.ys)
	case Akima, AkimaPeriodic:
		s.coef = newAkima(s.xs, s.ys, kind == AkimaPeriodic)
	case Steffen:
		s.coef = newSteffen(s.xs, s.ys)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownInterpolation, kind)
	}
	return s, nil
}

// NewFromSelector constructs a spline from a §6 selector string.
func NewFromSelector(selector string, xs, ys []float64) (*Spline, error) {
	kind, err := ParseKind(selector)
	if err != nil {
		return nil, err
	}
	return New(kind, xs, ys)
}

// Kind returns the interpolation variant.
func (s *Spline) Kind() Kind { return s.kind }

// X returns the abscissa samples. The slice must not be modified.
func (s *Spline) X() []float64 { return s.xs }

// Y returns the ordinate samples. The slice must not be modified.
func (s *Spline) Y() []float64 { return s.ys }

// Domain returns [xmin, xmax].
func (s *Spline) Domain() (float64, float64) {
	return s.xs[0], s.xs[len(s.xs)-1]
}

// InDomain reports whether x lies inside [xmin, xmax].
func (s *Spline) InDomain(x float64) bool {
	return x >= s.xs[0] && x <= s.xs[len(s.xs)-1]
}

// CheckDomain returns ErrDomain when x lies outside [xmin, xmax].
func (s *Spline) CheckDomain(x float64) error {
	if !s.InDomain(x) {
		return fmt.Errorf("%w: x=%v not in [%v, %v]", ErrDomain, x, s.xs[0], s.xs[len(s.xs)-1])
	}
	return nil
}

// Eval returns the interpolated value at x. Outside the domain, periodic
// variants reduce x modulo the period and the rest extend linearly from the
// nearest endpoint.
func (s *Spline) Eval(x float64, acc *Accel) float64 {
	x = s.reduce(x)
	if out, edge := s.outside(x); out {
		slope := s.coef.deriv(s.xs, s.ys, edgeInterval(edge, len(s.xs)), s.xs[edge])
		return s.ys[edge] + slope*(x-s.xs[edge])
	}
	i := findInterval(s.xs, x, acc)
	return s.coef.eval(s.xs, s.ys, i, x)
}

// Deriv returns dy/dx at x.
func (s *Spline) Deriv(x float64, acc *Accel) float64 {
	x = s.reduce(x)
	if out, edge := s.outside(x); out {
		return s.coef.deriv(s.xs, s.ys, edgeInterval(edge, len(s.xs)), s.xs[edge])
	}
	i := findInterval(s.xs, x, acc)
	return s.coef.deriv(s.xs, s.ys, i, x)
}

// Deriv2 returns d²y/dx² at x.
func (s *Spline) Deriv2(x float64, acc *Accel) float64 {
	x = s.reduce(x)
	if out, _ := s.outside(x); out {
		return 0
	}
	i := findInterval(s.xs, x, acc)
	return s.coef.deriv2(s.xs, s.ys, i, x)
}

// reduce maps x into the data period for periodic variants.
func (s *Spline) reduce(x float64) float64 {
	if !s.kind.Periodic() {
		return x
	}
	x0, x1 := s.xs[0], s.xs[len(s.xs)-1]
	period := x1 - x0
	x = math.Mod(x-x0, period)
	if x < 0 {
		x += period
	}
	return x + x0
}

// outside reports whether x falls off the grid and which endpoint is nearest.
func (s *Spline) outside(x float64) (bool, int) {
	if x < s.xs[0] {
		return true, 0
	}
	if x > s.xs[len(s.xs)-1] {
		return true, len(s.xs) - 1
	}
	return false, 0
}

// edgeInterval maps an endpoint index onto its adjacent interval.
func edgeInterval(edge, n int) int {
	if edge == 0 {
		return 0
	}
	return n - 2
}

// linearInterp is piecewise linear interpolation.
type linearInterp struct{}

func (linearInterp) eval(xs, ys []float64, i int, x float64) float64 {
	slope := (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	return ys[i] + slope*(x-xs[i])
}

func (linearInterp) deriv(xs, ys []float64, i int, _ float64) float64 {
	return (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
}

func (linearInterp) deriv2(_, _ []float64, _ int, _ float64) float64 {
	return 0
}
