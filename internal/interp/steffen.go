package interp

import "math"

// steffenInterp is Steffen's monotone cubic: the interpolant is monotone
// wherever the data is, so minima and maxima occur only at the knots.
type steffenInterp struct {
	a, b, c, d []float64
}

func newSteffen(xs, ys []float64) *steffenInterp {
	n := len(xs)
	yp := make([]float64, n)

	// Endpoint derivatives take the one-sided slopes.
	yp[0] = (ys[1] - ys[0]) / (xs[1] - xs[0])
	yp[n-1] = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])

	for i := 1; i < n-1; i++ {
		hm := xs[i] - xs[i-1]
		hi := xs[i+1] - xs[i]
		sm := (ys[i] - ys[i-1]) / hm
		si := (ys[i+1] - ys[i]) / hi
		p := (sm*hi + si*hm) / (hm + hi)
		yp[i] = (math.Copysign(1, sm) + math.Copysign(1, si)) *
			math.Min(math.Abs(sm), math.Min(math.Abs(si), 0.5*math.Abs(p)))
	}

	s := &steffenInterp{
		a: make([]float64, n-1),
		b: make([]float64, n-1),
		c: make([]float64, n-1),
		d: make([]float64, n-1),
	}
	for i := 0; i < n-1; i++ {
		h := xs[i+1] - xs[i]
		si := (ys[i+1] - ys[i]) / h
		s.a[i] = (yp[i] + yp[i+1] - 2*si) / (h * h)
		s.b[i] = (3*si - 2*yp[i] - yp[i+1]) / h
		s.c[i] = yp[i]
		s.d[i] = ys[i]
	}
	return s
}

func (s *steffenInterp) eval(xs, _ []float64, i int, x float64) float64 {
	dx := x - xs[i]
	return s.d[i] + dx*(s.c[i]+dx*(s.b[i]+dx*s.a[i]))
}

func (s *steffenInterp) deriv(xs, _ []float64, i int, x float64) float64 {
	dx := x - xs[i]
	return s.c[i] + dx*(2*s.b[i]+3*s.a[i]*dx)
}

func (s *steffenInterp) deriv2(xs, _ []float64, i int, x float64) float64 {
	return 2*s.b[i] + 6*s.a[i]*(x-xs[i])
}
