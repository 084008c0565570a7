package interp

import "math"

// akimaInterp is the non-rounded Akima spline (Wodicka's corner algorithm,
// as in GSL). Local: each interval depends on at most five neighbouring
// slopes, so outliers do not ring across the whole domain.
type akimaInterp struct {
	b, c, d []float64
}

func newAkima(xs, ys []float64, periodic bool) *akimaInterp {
	n := len(xs)
	// Slopes with a two-interval margin on both sides: m[i+2] is the slope
	// of interval i.
	m := make([]float64, n+3)
	for i := 0; i < n-1; i++ {
		m[i+2] = (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	}
	if periodic {
		m[0] = m[n-1]
		m[1] = m[n]
		m[n+1] = m[2]
		m[n+2] = m[3]
	} else {
		// Linear extension of the boundary slopes.
		m[1] = 2*m[2] - m[3]
		m[0] = 3*m[2] - 2*m[3]
		m[n+1] = 2*m[n] - m[n-1]
		m[n+2] = 3*m[n] - 2*m[n-1]
	}

	a := &akimaInterp{
		b: make([]float64, n-1),
		c: make([]float64, n-1),
		d: make([]float64, n-1),
	}
	for i := 0; i < n-1; i++ {
		mi := m[i+2]
		ne := math.Abs(m[i+3]-mi) + math.Abs(m[i+1]-m[i])
		if ne == 0 {
			a.b[i] = mi
			continue
		}
		h := xs[i+1] - xs[i]
		neNext := math.Abs(m[i+4]-m[i+3]) + math.Abs(mi-m[i+1])
		alpha := math.Abs(m[i+1]-m[i]) / ne
		var tlNext float64
		if neNext == 0 {
			tlNext = mi
		} else {
			alphaNext := math.Abs(mi-m[i+1]) / neNext
			tlNext = (1-alphaNext)*mi + alphaNext*m[i+3]
		}
		a.b[i] = (1-alpha)*m[i+1] + alpha*mi
		a.c[i] = (3*mi - 2*a.b[i] - tlNext) / h
		a.d[i] = (a.b[i] + tlNext - 2*mi) / (h * h)
	}
	return a
}

func (a *akimaInterp) eval(xs, ys []float64, i int, x float64) float64 {
	dx := x - xs[i]
	return ys[i] + dx*(a.b[i]+dx*(a.c[i]+dx*a.d[i]))
}

func (a *akimaInterp) deriv(xs, _ []float64, i int, x float64) float64 {
	dx := x - xs[i]
	return a.b[i] + dx*(2*a.c[i]+3*a.d[i]*dx)
}

func (a *akimaInterp) deriv2(xs, _ []float64, i int, x float64) float64 {
	dx := x - xs[i]
	return 2*a.c[i] + 6*a.d[i]*dx
}
