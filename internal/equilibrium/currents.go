package equilibrium

import (
	"fmt"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// Currents interpolates the toroidal and poloidal plasma currents g(ψp)
// and I(ψp).
type Currents struct {
	g *interp.Spline
	i *interp.Spline
}

// NewCurrents builds the currents component from a validated dataset.
func NewCurrents(d *Dataset, selector string) (*Currents, error) {
	kind, err := interp.ParseKind(selector)
	if err != nil {
		return nil, err
	}
	g, err := interp.New(kind, d.PsipData, d.GData)
	if err != nil {
		return nil, fmt.Errorf("g spline: %w", err)
	}
	i, err := interp.New(kind, d.PsipData, d.IData)
	if err != nil {
		return nil, fmt.Errorf("i spline: %w", err)
	}
	return &Currents{g: g, i: i}, nil
}

// G returns the toroidal current at ψp.
func (c *Currents) G(psip float64, acc *interp.Accel) float64 {
	return c.g.Eval(psip, acc)
}

// I returns the poloidal current at ψp.
func (c *Currents) I(psip float64, acc *interp.Accel) float64 {
	return c.i.Eval(psip, acc)
}

// DgDpsip returns dg/dψp at ψp.
func (c *Currents) DgDpsip(psip float64, acc *interp.Accel) float64 {
	return c.g.Deriv(psip, acc)
}

// DiDpsip returns dI/dψp at ψp.
func (c *Currents) DiDpsip(psip float64, acc *interp.Accel) float64 {
	return c.i.Deriv(psip, acc)
}

// PsipData returns the ψp abscissa. The slice must not be modified.
func (c *Currents) PsipData() []float64 { return c.g.X() }

// GData returns the tabulated g samples. The slice must not be modified.
func (c *Currents) GData() []float64 { return c.g.Y() }

// IData returns the tabulated I samples. The slice must not be modified.
func (c *Currents) IData() []float64 { return c.i.Y() }
