package equilibrium

import (
	"fmt"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// Bfield interpolates the magnetic field strength b(ψp, θ) and the
// cylindrical coordinates R(ψp, θ), Z(ψp, θ) of the flux surfaces.
type Bfield struct {
	b *interp.Spline2D
	r *interp.Spline2D
	z *interp.Spline2D

	psipWall float64
	baxis    float64
	raxis    float64

	// Partials of b at the grid nodes, from the file when supplied and
	// from the spline otherwise.
	dbDpsipData  []float64
	dbDthetaData []float64
}

// NewBfield builds the field component from a validated dataset.
func NewBfield(d *Dataset, selector string) (*Bfield, error) {
	kind, err := interp.ParseKind2D(selector)
	if err != nil {
		return nil, err
	}
	b, err := interp.New2D(kind, d.PsipData, d.ThetaData, d.BData)
	if err != nil {
		return nil, fmt.Errorf("b spline: %w", err)
	}
	r, err := interp.New2D(kind, d.PsipData, d.ThetaData, d.RData)
	if err != nil {
		return nil, fmt.Errorf("r spline: %w", err)
	}
	z, err := interp.New2D(kind, d.PsipData, d.ThetaData, d.ZData)
	if err != nil {
		return nil, fmt.Errorf("z spline: %w", err)
	}

	bf := &Bfield{
		b:        b,
		r:        r,
		z:        z,
		psipWall: d.PsipWall,
		baxis:    d.Baxis,
		raxis:    d.Raxis,
	}

	if len(d.DbDpsipData) != 0 {
		bf.dbDpsipData = append([]float64(nil), d.DbDpsipData...)
	} else {
		bf.dbDpsipData = bf.tabulate(bf.b.DerivX)
	}
	if len(d.DbDthetaData) != 0 {
		bf.dbDthetaData = append([]float64(nil), d.DbDthetaData...)
	} else {
		bf.dbDthetaData = bf.tabulate(bf.b.DerivY)
	}
	return bf, nil
}

// tabulate evaluates a partial of b at every grid node.
func (f *Bfield) tabulate(part func(x, y float64, xacc, yacc *interp.Accel) float64) []float64 {
	xs, ys := f.b.X(), f.b.Y()
	out := make([]float64, len(xs)*len(ys))
	xacc, yacc := interp.NewAccel(), interp.NewAccel()
	for i, x := range xs {
		for j, y := range ys {
			out[i*len(ys)+j] = part(x, y, xacc, yacc)
		}
	}
	return out
}

// B returns the field strength at (ψp, θ).
func (f *Bfield) B(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.Eval(psip, theta, xacc, yacc)
}

// DbDpsip returns ∂b/∂ψp.
func (f *Bfield) DbDpsip(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.DerivX(psip, theta, xacc, yacc)
}

// DbDtheta returns ∂b/∂θ.
func (f *Bfield) DbDtheta(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.DerivY(psip, theta, xacc, yacc)
}

// D2bDpsip2 returns ∂²b/∂ψp².
func (f *Bfield) D2bDpsip2(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.DerivXX(psip, theta, xacc, yacc)
}

// D2bDtheta2 returns ∂²b/∂θ².
func (f *Bfield) D2bDtheta2(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.DerivYY(psip, theta, xacc, yacc)
}

// D2bDpsipDtheta returns the mixed partial ∂²b/∂ψp∂θ.
func (f *Bfield) D2bDpsipDtheta(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.b.DerivXY(psip, theta, xacc, yacc)
}

// R returns the major-radius coordinate at (ψp, θ).
func (f *Bfield) R(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.r.Eval(psip, theta, xacc, yacc)
}

// Z returns the vertical coordinate at (ψp, θ).
func (f *Bfield) Z(psip, theta float64, xacc, yacc *interp.Accel) float64 {
	return f.z.Eval(psip, theta, xacc, yacc)
}

// PsipWall returns ψp at the wall.
func (f *Bfield) PsipWall() float64 { return f.psipWall }

// Baxis returns the field strength on the magnetic axis.
func (f *Bfield) Baxis() float64 { return f.baxis }

// Raxis returns the major radius of the magnetic axis.
func (f *Bfield) Raxis() float64 { return f.raxis }

// PsipData returns the ψp abscissa. The slice must not be modified.
func (f *Bfield) PsipData() []float64 { return f.b.X() }

// ThetaData returns the θ abscissa. The slice must not be modified.
func (f *Bfield) ThetaData() []float64 { return f.b.Y() }

// BData returns the row-major field samples. The slice must not be modified.
func (f *Bfield) BData() []float64 { return f.b.Z() }

// DbDpsipData returns ∂b/∂ψp tabulated at the grid nodes.
func (f *Bfield) DbDpsipData() []float64 { return f.dbDpsipData }

// DbDthetaData returns ∂b/∂θ tabulated at the grid nodes.
func (f *Bfield) DbDthetaData() []float64 { return f.dbDthetaData }
