package equilibrium

import (
	"fmt"
	"math"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// PhaseMode selects how a harmonic's phase φ is evaluated.
type PhaseMode int

const (
	// PhaseConstant freezes φ to the mean of the phase samples (or the
	// scalar phase attribute) at construction.
	PhaseConstant PhaseMode = iota
	// PhaseInterpolated evaluates φ(ψp) through a spline and adds a
	// linear ω·t term.
	PhaseInterpolated
)

// ParsePhaseMode maps the configuration strings "constant" and
// "interpolated".
func ParsePhaseMode(s string) (PhaseMode, error) {
	switch s {
	case "constant":
		return PhaseConstant, nil
	case "interpolated":
		return PhaseInterpolated, nil
	}
	return 0, fmt.Errorf("equilibrium: unknown phase mode %q", s)
}

// Harmonic is one perturbation term h(ψp, θ, ζ, t) = a(ψp)·cos(mθ − nζ + φ).
type Harmonic struct {
	a    *interp.Spline
	m, n float64

	mode  PhaseMode
	phase float64        // constant mode
	phi   *interp.Spline // interpolated mode, may be nil
	omega float64

	amax float64
}

// NewHarmonic builds one harmonic over the dataset's ψp grid.
//
// In PhaseInterpolated mode the phase spline comes from h.PhaseData; a
// harmonic without a phase array degrades to the constant mode. In
// PhaseConstant mode, φ is h.Phase when no phase array is present and the
// mean of the array otherwise.
func NewHarmonic(d *Dataset, h HarmonicData, selector string, mode PhaseMode) (*Harmonic, error) {
	kind, err := interp.ParseKind(selector)
	if err != nil {
		return nil, err
	}
	a, err := interp.New(kind, d.PsipData, h.AData)
	if err != nil {
		return nil, fmt.Errorf("amplitude spline: %w", err)
	}

	out := &Harmonic{
		a:    a,
		m:    h.M,
		n:    h.N,
		mode: PhaseConstant,
	}
	for _, v := range h.AData {
		if av := math.Abs(v); av > out.amax {
			out.amax = av
		}
	}

	switch {
	case mode == PhaseInterpolated && len(h.PhaseData) != 0:
		phi, err := interp.New(kind, d.PsipData, h.PhaseData)
		if err != nil {
			return nil, fmt.Errorf("phase spline: %w", err)
		}
		out.mode = PhaseInterpolated
		out.phi = phi
		out.omega = h.Omega
	case len(h.PhaseData) != 0:
		var mean float64
		for _, v := range h.PhaseData {
			mean += v
		}
		out.phase = math.Mod(mean/float64(len(h.PhaseData)), 2*math.Pi)
	default:
		out.phase = math.Mod(h.Phase, 2*math.Pi)
	}
	return out, nil
}

// M returns the θ mode number.
func (h *Harmonic) M() float64 { return h.m }

// N returns the ζ mode number.
func (h *Harmonic) N() float64 { return h.n }

// Amax returns the largest amplitude sample.
func (h *Harmonic) Amax() float64 { return h.amax }

// Mode returns the phase mode the harmonic was built with.
func (h *Harmonic) Mode() PhaseMode { return h.mode }

// PsipData returns the ψp abscissa. The slice must not be modified.
func (h *Harmonic) PsipData() []float64 { return h.a.X() }

// AData returns the amplitude samples. The slice must not be modified.
func (h *Harmonic) AData() []float64 { return h.a.Y() }

// angle returns the full argument mθ − nζ + φ(ψp, t).
func (h *Harmonic) angle(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	phi := h.phase
	if h.mode == PhaseInterpolated {
		phi = h.phi.Eval(psip, acc) + h.omega*t
	}
	return h.m*theta - h.n*zeta + phi
}

// H returns the harmonic value.
func (h *Harmonic) H(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	return h.a.Eval(psip, acc) * math.Cos(h.angle(psip, theta, zeta, t, acc))
}

// DhDpsip returns ∂h/∂ψp. In the interpolated mode the phase spline
// contributes −a·sin(Φ)·φ′(ψp) through the product rule.
func (h *Harmonic) DhDpsip(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	arg := h.angle(psip, theta, zeta, t, acc)
	out := h.a.Deriv(psip, acc) * math.Cos(arg)
	if h.mode == PhaseInterpolated {
		out -= h.a.Eval(psip, acc) * math.Sin(arg) * h.phi.Deriv(psip, acc)
	}
	return out
}

// DhDtheta returns ∂h/∂θ.
func (h *Harmonic) DhDtheta(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	return -h.m * h.a.Eval(psip, acc) * math.Sin(h.angle(psip, theta, zeta, t, acc))
}

// DhDzeta returns ∂h/∂ζ.
func (h *Harmonic) DhDzeta(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	return h.n * h.a.Eval(psip, acc) * math.Sin(h.angle(psip, theta, zeta, t, acc))
}

// DhDt returns ∂h/∂t: −ω·a·sin(Φ) in the interpolated mode, zero otherwise.
func (h *Harmonic) DhDt(psip, theta, zeta, t float64, acc *interp.Accel) float64 {
	if h.mode != PhaseInterpolated || h.omega == 0 {
		return 0
	}
	return -h.omega * h.a.Eval(psip, acc) * math.Sin(h.angle(psip, theta, zeta, t, acc))
}
