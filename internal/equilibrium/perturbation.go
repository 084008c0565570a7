package equilibrium

import "github.com/George-Tsiamasiotis/poincare-maps/internal/interp"

// Perturbation is an ordered sum of harmonics. An empty perturbation is the
// unperturbed system: every query returns zero.
type Perturbation struct {
	harmonics []*Harmonic
}

// NewPerturbation builds every harmonic group of the dataset.
func NewPerturbation(d *Dataset, selector string, mode PhaseMode) (*Perturbation, error) {
	p := &Perturbation{}
	for _, h := range d.Harmonics {
		built, err := NewHarmonic(d, h, selector, mode)
		if err != nil {
			return nil, err
		}
		p.harmonics = append(p.harmonics, built)
	}
	return p, nil
}

// FromHarmonics assembles a perturbation from already-built harmonics.
func FromHarmonics(hs ...*Harmonic) *Perturbation {
	return &Perturbation{harmonics: hs}
}

// Len returns the number of harmonics.
func (p *Perturbation) Len() int {
	if p == nil {
		return 0
	}
	return len(p.harmonics)
}

// At returns the i-th harmonic, in construction order.
func (p *Perturbation) At(i int) *Harmonic { return p.harmonics[i] }

// P returns the aggregate perturbation value.
func (p *Perturbation) P(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	var sum float64
	for _, h := range p.list() {
		sum += h.H(psip, theta, zeta, t, acc)
	}
	return sum
}

// DpDpsip returns the aggregate ∂p/∂ψp.
func (p *Perturbation) DpDpsip(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	var sum float64
	for _, h := range p.list() {
		sum += h.DhDpsip(psip, theta, zeta, t, acc)
	}
	return sum
}

// DpDtheta returns the aggregate ∂p/∂θ.
func (p *Perturbation) DpDtheta(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	var sum float64
	for _, h := range p.list() {
		sum += h.DhDtheta(psip, theta, zeta, t, acc)
	}
	return sum
}

// DpDzeta returns the aggregate ∂p/∂ζ.
func (p *Perturbation) DpDzeta(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	var sum float64
	for _, h := range p.list() {
		sum += h.DhDzeta(psip, theta, zeta, t, acc)
	}
	return sum
}

// DpDt returns the aggregate ∂p/∂t.
func (p *Perturbation) DpDt(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	var sum float64
	for _, h := range p.list() {
		sum += h.DhDt(psip, theta, zeta, t, acc)
	}
	return sum
}

func (p *Perturbation) list() []*Harmonic {
	if p == nil {
		return nil
	}
	return p.harmonics
}
