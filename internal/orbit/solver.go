package orbit

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrConfig marks invalid integration parameters.
var ErrConfig = errors.New("orbit: invalid configuration")

// Params are the numeric integrator settings.
type Params struct {
	Atol      float64
	Rtol      float64
	EpsEnergy float64

	H0   float64
	HMin float64
	HMax float64

	Safety   float64
	MaxSteps int

	StoreStride int
	MaxStored   int

	// Controller selects "lte" or "energy".
	Controller string
}

// DefaultParams returns a tolerant general-purpose configuration.
func DefaultParams() Params {
	return Params{
		Atol:       1e-9,
		Rtol:       1e-9,
		EpsEnergy:  1e-9,
		H0:         1e-2,
		HMin:       1e-12,
		HMax:       1.0,
		Safety:     0.9,
		MaxSteps:   1_000_000,
		Controller: "lte",
	}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.Atol <= 0 || p.Rtol < 0 {
		return fmt.Errorf("%w: tolerances atol=%g rtol=%g", ErrConfig, p.Atol, p.Rtol)
	}
	if p.H0 <= 0 || p.HMin <= 0 || p.HMax <= 0 || p.HMin > p.HMax {
		return fmt.Errorf("%w: step bounds h0=%g hmin=%g hmax=%g", ErrConfig, p.H0, p.HMin, p.HMax)
	}
	if p.Safety <= 0 || p.Safety >= 1 {
		return fmt.Errorf("%w: safety factor %g", ErrConfig, p.Safety)
	}
	if p.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d", ErrConfig, p.MaxSteps)
	}
	switch p.Controller {
	case "lte":
	case "energy":
		if p.EpsEnergy <= 0 {
			return fmt.Errorf("%w: eps_energy %g", ErrConfig, p.EpsEnergy)
		}
	default:
		return fmt.Errorf("%w: controller %q", ErrConfig, p.Controller)
	}
	return nil
}

// controller builds the configured step controller.
func (p Params) controller() Controller {
	if p.Controller == "energy" {
		return &EnergyController{Eps: p.EpsEnergy, Safety: p.Safety}
	}
	return &LTEController{Atol: p.Atol, Rtol: p.Rtol, Safety: p.Safety}
}

// Result is the outcome of a time-series integration.
type Result struct {
	Evolution *Evolution
	Status    Status

	InitialEnergy float64
	FinalEnergy   float64

	// Final state, whatever the terminal status.
	T float64
	X Vector
}

// Solver drives one particle through the RKF4(5) loop.
type Solver struct {
	sys  *System
	par  Params
	ctrl Controller

	steps int
}

// NewSolver validates the parameters and binds the controller.
func NewSolver(sys *System, par Params) (*Solver, error) {
	if err := par.Validate(); err != nil {
		return nil, err
	}
	return &Solver{sys: sys, par: par, ctrl: par.controller()}, nil
}

// StepsUsed reports accepted plus rejected attempts so far.
func (s *Solver) StepsUsed() int { return s.steps }

// stepOutcome is one accepted step or a terminal condition.
type stepOutcome struct {
	t     float64
	x     Vector
	hNext float64

	terminal bool
	status   Status
}

// advance runs attempts from (t, x, h) until one is accepted or a guard
// fires. Every attempt, accepted or rejected, counts against MaxSteps.
func (s *Solver) advance(t float64, x Vector, h float64) stepOutcome {
	for {
		if s.steps >= s.par.MaxSteps {
			return stepOutcome{terminal: true, status: Completed}
		}
		if h < s.par.HMin {
			return stepOutcome{terminal: true, status: StepFloorReached}
		}
		if h > s.par.HMax {
			h = s.par.HMax
		}

		y4, y5 := rkfStages(s.sys.Derive, t, x, h)
		s.steps++

		if !y5.IsFinite() {
			return stepOutcome{terminal: true, status: NonFinite}
		}

		tr := Trial{H: h, Y0: x, Y4: y4, Y5: y5}
		if s.ctrl.NeedsEnergy() {
			tr.E0 = s.sys.Energy(t, x)
			tr.E1 = s.sys.Energy(t+h, y5)
		}
		ok, hNext := s.ctrl.Accept(tr)
		if !math.IsInf(hNext, 0) && !math.IsNaN(hNext) {
			hNext = math.Min(hNext, s.par.HMax)
		} else {
			hNext = s.par.HMax
		}
		if !ok {
			h = hNext
			continue
		}

		if psip := y5[IdxPsip]; psip < 0 || psip > s.sys.PsipWall() {
			return stepOutcome{terminal: true, status: EscapedWall}
		}
		return stepOutcome{t: t + h, x: y5, hNext: hNext}
	}
}

// Run integrates from the initial conditions until tEnd, storing each
// accepted step in the evolution buffer.
func (s *Solver) Run(ctx context.Context, ic InitialConditions, tEnd float64) *Result {
	s.sys.Mu = ic.Mu
	s.steps = 0

	t := ic.T0
	x := ic.Vector()
	h := s.par.H0

	res := &Result{
		Evolution:     NewEvolution(s.par.StoreStride, s.par.MaxStored),
		Status:        Completed,
		InitialEnergy: s.sys.Energy(t, x),
	}
	res.Evolution.Push(s.sys.Point(t, x))

	for t < tEnd {
		if ctx != nil && ctx.Err() != nil {
			res.Status = Cancelled
			break
		}
		out := s.advance(t, x, h)
		if out.terminal {
			res.Status = out.status
			break
		}
		t, x, h = out.t, out.x, out.hNext
		res.Evolution.Push(s.sys.Point(t, x))
	}

	res.T = t
	res.X = x
	res.FinalEnergy = s.sys.Energy(t, x)
	return res
}
