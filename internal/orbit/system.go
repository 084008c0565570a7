package orbit

import (
	"github.com/George-Tsiamasiotis/poincare-maps/internal/equilibrium"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// System assembles the guiding-centre right-hand side over one equilibrium.
//
// The equilibrium components are shared, read-only references; the
// accelerator pair is owned by the system and must not be shared across
// goroutines. One system serves one particle worker.
type System struct {
	qfactor      *equilibrium.Qfactor
	currents     *equilibrium.Currents
	bfield       *equilibrium.Bfield
	perturbation *equilibrium.Perturbation

	// Mu is the magnetic moment of the particle being integrated.
	Mu float64

	xacc *interp.Accel
	yacc *interp.Accel
}

// NewSystem builds a worker-local system. perturbation may be nil for the
// unperturbed equilibrium.
func NewSystem(qf *equilibrium.Qfactor, cur *equilibrium.Currents, bf *equilibrium.Bfield,
	per *equilibrium.Perturbation, mu float64) *System {
	return &System{
		qfactor:      qf,
		currents:     cur,
		bfield:       bf,
		perturbation: per,
		Mu:           mu,
		xacc:         interp.NewAccel(),
		yacc:         interp.NewAccel(),
	}
}

// PsipWall returns the flux value of the wall.
func (s *System) PsipWall() float64 { return s.bfield.PsipWall() }

// Accels exposes the accelerator pair, for reuse diagnostics.
func (s *System) Accels() (x, y *interp.Accel) { return s.xacc, s.yacc }

// Derive evaluates the right-hand side ẋ = (θ̇, ψ̇p, ρ̇‖, ζ̇) at (t, x).
//
// All 1D quantities (q, g, I and the perturbation amplitude) share the ψp
// accelerator and the 2D field shares it on its first axis, so the
// interval search runs once per axis per call.
func (s *System) Derive(t float64, x Vector) Vector {
	theta, psip, rho := x[IdxTheta], x[IdxPsip], x[IdxRho]
	zeta := x[IdxZeta]

	q := s.qfactor.Q(psip, s.xacc)
	g := s.currents.G(psip, s.xacc)
	i := s.currents.I(psip, s.xacc)
	dg := s.currents.DgDpsip(psip, s.xacc)
	di := s.currents.DiDpsip(psip, s.xacc)

	b := s.bfield.B(psip, theta, s.xacc, s.yacc)
	dbDpsip := s.bfield.DbDpsip(psip, theta, s.xacc, s.yacc)
	dbDtheta := s.bfield.DbDtheta(psip, theta, s.xacc, s.yacc)
	const dbDzeta = 0.0 // axisymmetric equilibrium

	var p, dpDpsip, dpDtheta, dpDzeta, dpDt float64
	if s.perturbation.Len() != 0 {
		p = s.perturbation.P(psip, theta, zeta, t, s.xacc)
		dpDpsip = s.perturbation.DpDpsip(psip, theta, zeta, t, s.xacc)
		dpDtheta = s.perturbation.DpDtheta(psip, theta, zeta, t, s.xacc)
		dpDzeta = s.perturbation.DpDzeta(psip, theta, zeta, t, s.xacc)
		dpDt = s.perturbation.DpDt(psip, theta, zeta, t, s.xacc)
	}

	// Matrix coefficients of the perturbed equations of motion.
	cterm := -1 + (rho+p)*dg + g*dpDpsip
	fterm := q + (rho+p)*di + i*dpDpsip
	kterm := g*dpDtheta - i*dpDzeta
	dterm := g*fterm - i*cterm

	muPar := s.Mu + rho*rho*b
	psipBrace := muPar * dbDpsip
	thetaBrace := muPar * dbDtheta
	zetaBrace := muPar * dbDzeta

	rhoB2D := rho * b * b / dterm
	gOverD := g / dterm
	iOverD := i / dterm

	return Vector{
		IdxTheta: -cterm*rhoB2D + gOverD*psipBrace,
		IdxPsip:  kterm*rhoB2D - gOverD*thetaBrace + iOverD*zetaBrace,
		IdxRho:   cterm/dterm*thetaBrace - kterm/dterm*psipBrace - fterm/dterm*zetaBrace - dpDt,
		IdxZeta:  fterm*rhoB2D - iOverD*psipBrace,
	}
}

// Energy returns E = ½ρ²b² + μb at (t, x).
func (s *System) Energy(t float64, x Vector) float64 {
	b := s.bfield.B(x[IdxPsip], x[IdxTheta], s.xacc, s.yacc)
	rho := x[IdxRho]
	return 0.5*rho*rho*b*b + s.Mu*b
}

// Point derives the stored row for state x at time t: the state itself
// plus ψ and the canonical momenta pθ = ψ + ρI, pζ = ρg − ψp.
func (s *System) Point(t float64, x Vector) Point {
	psip := x[IdxPsip]
	psi := s.qfactor.Psi(psip, s.xacc)
	i := s.currents.I(psip, s.xacc)
	g := s.currents.G(psip, s.xacc)
	return Point{
		T:      t,
		Theta:  x[IdxTheta],
		Psip:   psip,
		Rho:    x[IdxRho],
		Zeta:   x[IdxZeta],
		Psi:    psi,
		Ptheta: psi + x[IdxRho]*i,
		Pzeta:  x[IdxRho]*g - psip,
	}
}

// Psi returns the toroidal flux at ψp through the system's accelerator.
func (s *System) Psi(psip float64) float64 {
	return s.qfactor.Psi(psip, s.xacc)
}
