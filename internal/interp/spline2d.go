package interp

import "fmt"

// Spline2D interpolates a tensor-product grid. zs is row-major:
// zs[i*len(ys)+j] = z(xs[i], ys[j]).
//
// Queries take one accelerator per axis; the x accelerator may be shared
// with 1D splines built on the same abscissa.
type Spline2D struct {
	kind Kind2D
	xs   []float64
	ys   []float64
	zs   []float64

	// Bicubic node partials, same layout as zs.
	zx, zy, zxy []float64
}

// New2D constructs a 2D spline of the given variant.
func New2D(kind Kind2D, xs, ys, zs []float64) (*Spline2D, error) {
	if len(zs) != len(xs)*len(ys) {
		return nil, fmt.Errorf("%w: grid %dx%d, %d values",
			ErrMismatch, len(xs), len(ys), len(zs))
	}
	if len(xs) < kind.MinPoints() || len(ys) < kind.MinPoints() {
		return nil, fmt.Errorf("%w: %s needs %d points per axis, got %dx%d",
			ErrInsufficientPoints, kind, kind.MinPoints(), len(xs), len(ys))
	}
	for _, axis := range [][]float64{xs, ys} {
		for i := 1; i < len(axis); i++ {
			if !(axis[i] > axis[i-1]) {
				return nil, fmt.Errorf("%w: axis value %v follows %v",
					ErrNonMonotone, axis[i], axis[i-1])
			}
		}
	}

	s := &Spline2D{
		kind: kind,
		xs:   append([]float64(nil), xs...),
		ys:   append([]float64(nil), ys...),
		zs:   append([]float64(nil), zs...),
	}
	if kind == Bicubic {
		s.initBicubic()
	}
	return s, nil
}

// New2DFromSelector constructs a 2D spline from a §6 selector string.
func New2DFromSelector(selector string, xs, ys, zs []float64) (*Spline2D, error) {
	kind, err := ParseKind2D(selector)
	if err != nil {
		return nil, err
	}
	return New2D(kind, xs, ys, zs)
}

// Kind returns the interpolation variant.
func (s *Spline2D) Kind() Kind2D { return s.kind }

// X returns the first-axis samples. The slice must not be modified.
func (s *Spline2D) X() []float64 { return s.xs }

// Y returns the second-axis samples. The slice must not be modified.
func (s *Spline2D) Y() []float64 { return s.ys }

// Z returns the row-major grid values. The slice must not be modified.
func (s *Spline2D) Z() []float64 { return s.zs }

// Domain returns [xmin, xmax, ymin, ymax].
func (s *Spline2D) Domain() (xmin, xmax, ymin, ymax float64) {
	return s.xs[0], s.xs[len(s.xs)-1], s.ys[0], s.ys[len(s.ys)-1]
}

func (s *Spline2D) at(i, j int) float64 { return s.zs[i*len(s.ys)+j] }

// clampAxis pins an off-grid coordinate to the boundary. The 2D layer
// extends constantly past the grid; callers that care (the integrator)
// check the domain themselves and report wall escape instead.
func clampAxis(axis []float64, v float64) float64 {
	if v < axis[0] {
		return axis[0]
	}
	if v > axis[len(axis)-1] {
		return axis[len(axis)-1]
	}
	return v
}

// Eval returns z(x, y).
func (s *Spline2D) Eval(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 0, 0)
}

// DerivX returns ∂z/∂x.
func (s *Spline2D) DerivX(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 1, 0)
}

// DerivY returns ∂z/∂y.
func (s *Spline2D) DerivY(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 0, 1)
}

// DerivXX returns ∂²z/∂x².
func (s *Spline2D) DerivXX(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 2, 0)
}

// DerivYY returns ∂²z/∂y².
func (s *Spline2D) DerivYY(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 0, 2)
}

// DerivXY returns the mixed partial ∂²z/∂x∂y.
func (s *Spline2D) DerivXY(x, y float64, xacc, yacc *Accel) float64 {
	return s.query(x, y, xacc, yacc, 1, 1)
}

func (s *Spline2D) query(x, y float64, xacc, yacc *Accel, dx, dy int) float64 {
	x = clampAxis(s.xs, x)
	y = clampAxis(s.ys, y)
	i := findInterval(s.xs, x, xacc)
	j := findInterval(s.ys, y, yacc)
	switch s.kind {
	case Bilinear:
		return s.bilinear(i, j, x, y, dx, dy)
	default:
		return s.bicubic(i, j, x, y, dx, dy)
	}
}

func (s *Spline2D) bilinear(i, j int, x, y float64, dx, dy int) float64 {
	hx := s.xs[i+1] - s.xs[i]
	hy := s.ys[j+1] - s.ys[j]
	t := (x - s.xs[i]) / hx
	u := (y - s.ys[j]) / hy
	z00 := s.at(i, j)
	z10 := s.at(i+1, j)
	z01 := s.at(i, j+1)
	z11 := s.at(i+1, j+1)

	switch {
	case dx == 0 && dy == 0:
		return (1-t)*(1-u)*z00 + t*(1-u)*z10 + (1-t)*u*z01 + t*u*z11
	case dx == 1 && dy == 0:
		return ((1-u)*(z10-z00) + u*(z11-z01)) / hx
	case dx == 0 && dy == 1:
		return ((1-t)*(z01-z00) + t*(z11-z10)) / hy
	case dx == 1 && dy == 1:
		return (z11 - z10 - z01 + z00) / (hx * hy)
	default:
		// Second pure derivatives of a bilinear patch vanish.
		return 0
	}
}
