package interp

// Bicubic interpolation in the GSL manner: first-derivative and
// cross-derivative values at the grid nodes are derived from natural cubic
// splines along each axis, then each cell is the Hermite patch matching
// those values at its four corners.

// hermite is the coefficient matrix mapping corner data onto the cubic
// basis 1, t, t², t³.
var hermite = [4][4]float64{
	{1, 0, 0, 0},
	{0, 0, 1, 0},
	{-3, 3, -2, -1},
	{2, -2, 1, 1},
}

// initBicubic fills zx, zy and zxy at every node.
func (s *Spline2D) initBicubic() {
	nx, ny := len(s.xs), len(s.ys)
	s.zx = make([]float64, nx*ny)
	s.zy = make([]float64, nx*ny)
	s.zxy = make([]float64, nx*ny)

	// ∂z/∂x: spline each y-column along x.
	col := make([]float64, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			col[i] = s.at(i, j)
		}
		slopes := cubicNodeSlopes(s.xs, col)
		for i := 0; i < nx; i++ {
			s.zx[i*ny+j] = slopes[i]
		}
	}

	// ∂z/∂y: spline each x-row along y.
	for i := 0; i < nx; i++ {
		slopes := cubicNodeSlopes(s.ys, s.zs[i*ny:(i+1)*ny])
		copy(s.zy[i*ny:(i+1)*ny], slopes)
	}

	// ∂²z/∂x∂y: spline the ∂z/∂y columns along x.
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			col[i] = s.zy[i*ny+j]
		}
		slopes := cubicNodeSlopes(s.xs, col)
		for i := 0; i < nx; i++ {
			s.zxy[i*ny+j] = slopes[i]
		}
	}
}

// bicubic evaluates the (dx, dy) partial of the Hermite patch on cell (i, j).
func (s *Spline2D) bicubic(i, j int, x, y float64, dx, dy int) float64 {
	ny := len(s.ys)
	hx := s.xs[i+1] - s.xs[i]
	hy := s.ys[j+1] - s.ys[j]
	t := (x - s.xs[i]) / hx
	u := (y - s.ys[j]) / hy

	idx := func(di, dj int) int { return (i+di)*ny + (j + dj) }

	// Corner data, derivatives rescaled to cell-local coordinates.
	var f [4][4]float64
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			k := idx(di, dj)
			f[di][dj] = s.zs[k]
			f[di][dj+2] = s.zy[k] * hy
			f[di+2][dj] = s.zx[k] * hx
			f[di+2][dj+2] = s.zxy[k] * hx * hy
		}
	}

	// a = H · f · Hᵀ, so that z(t, u) = Σ a[k][l] tᵏ uˡ.
	var hf [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var acc float64
			for k := 0; k < 4; k++ {
				acc += hermite[r][k] * f[k][c]
			}
			hf[r][c] = acc
		}
	}
	var a [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var acc float64
			for k := 0; k < 4; k++ {
				acc += hf[r][k] * hermite[c][k]
			}
			a[r][c] = acc
		}
	}

	tp := [4]float64{1, t, t * t, t * t * t}
	up := [4]float64{1, u, u * u, u * u * u}
	var z float64
	for k := dx; k < 4; k++ {
		for l := dy; l < 4; l++ {
			z += a[k][l] * polyCoeff(k, dx) * polyCoeff(l, dy) * tp[k-dx] * up[l-dy]
		}
	}
	for d := 0; d < dx; d++ {
		z /= hx
	}
	for d := 0; d < dy; d++ {
		z /= hy
	}
	return z
}

// polyCoeff is the falling factorial k·(k−1)···(k−d+1) from differentiating
// vᵏ d times.
func polyCoeff(k, d int) float64 {
	c := 1.0
	for n := 0; n < d; n++ {
		c *= float64(k - n)
	}
	return c
}
