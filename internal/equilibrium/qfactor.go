package equilibrium

import (
	"fmt"
	"math"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// Qfactor interpolates the safety factor q(ψp) and the toroidal flux ψ(ψp).
type Qfactor struct {
	q   *interp.Spline
	psi *interp.Spline

	// dψ/dψp at the nodes, for cross-checking against the tabulated q.
	qDerived []float64
}

// NewQfactor builds the q-factor component from a validated dataset.
func NewQfactor(d *Dataset, selector string) (*Qfactor, error) {
	kind, err := interp.ParseKind(selector)
	if err != nil {
		return nil, err
	}
	q, err := interp.New(kind, d.PsipData, d.QData)
	if err != nil {
		return nil, fmt.Errorf("q spline: %w", err)
	}
	psi, err := interp.New(kind, d.PsipData, d.PsiData)
	if err != nil {
		return nil, fmt.Errorf("psi spline: %w", err)
	}

	derived := make([]float64, len(d.PsipData))
	for i, x := range d.PsipData {
		derived[i] = psi.Deriv(x, nil)
	}
	return &Qfactor{q: q, psi: psi, qDerived: derived}, nil
}

// Q returns the safety factor at ψp.
func (f *Qfactor) Q(psip float64, acc *interp.Accel) float64 {
	return f.q.Eval(psip, acc)
}

// Psi returns the toroidal flux at ψp.
func (f *Qfactor) Psi(psip float64, acc *interp.Accel) float64 {
	return f.psi.Eval(psip, acc)
}

// DpsiDpsip returns dψ/dψp at ψp. On an ideal equilibrium this equals q.
func (f *Qfactor) DpsiDpsip(psip float64, acc *interp.Accel) float64 {
	return f.psi.Deriv(psip, acc)
}

// PsipData returns the ψp abscissa. The slice must not be modified.
func (f *Qfactor) PsipData() []float64 { return f.q.X() }

// QData returns the tabulated q samples. The slice must not be modified.
func (f *Qfactor) QData() []float64 { return f.q.Y() }

// PsiData returns the tabulated ψ samples. The slice must not be modified.
func (f *Qfactor) PsiData() []float64 { return f.psi.Y() }

// QDataDerived returns dψ/dψp evaluated at every node of PsipData, so the
// caller may compare it against QData.
func (f *Qfactor) QDataDerived() []float64 { return f.qDerived }

// ConsistencyReport quantifies the soft dataset checks.
func (f *Qfactor) ConsistencyReport() Report {
	var worst float64
	for i, q := range f.q.Y() {
		if r := math.Abs(f.qDerived[i] - q); r > worst {
			worst = r
		}
	}
	return Report{
		PsiAtAxis:    f.psi.Eval(f.psi.X()[0], nil),
		MaxQResidual: worst,
	}
}
