package orbit

import "math"

// Trial carries one attempted step to a controller.
type Trial struct {
	H  float64
	Y0 Vector
	Y4 Vector
	Y5 Vector
	// E0 and E1 are the energies before and after the step; filled only
	// when the controller asks for them.
	E0, E1 float64
}

// Controller decides whether a trial step is accepted and sizes the next
// step. The two implementations share all integrator plumbing and differ
// only in the rejection predicate and the resize rule.
type Controller interface {
	Accept(tr Trial) (ok bool, hNext float64)
	NeedsEnergy() bool
}

// growMax caps the step-size factor on acceptance; shrinkMin floors it on
// both acceptance and rejection.
const (
	growMax   = 5.0
	shrinkMin = 0.1
)

// LTEController accepts a step when the normalised embedded error estimate
// η = max_i |y5_i − y4_i| / (atol + rtol·max(|y5_i|, |y0_i|)) is at most 1.
type LTEController struct {
	Atol   float64
	Rtol   float64
	Safety float64
}

func (c *LTEController) NeedsEnergy() bool { return false }

func (c *LTEController) Accept(tr Trial) (bool, float64) {
	var eta float64
	for i := range tr.Y5 {
		e := math.Abs(tr.Y5[i] - tr.Y4[i])
		scale := c.Atol + c.Rtol*math.Max(math.Abs(tr.Y5[i]), math.Abs(tr.Y0[i]))
		if r := e / scale; r > eta {
			eta = r
		}
	}
	fac := c.Safety * math.Pow(eta, -0.2)
	if eta <= 1 {
		return true, tr.H * math.Min(growMax, math.Max(shrinkMin, fac))
	}
	return false, tr.H * math.Max(shrinkMin, fac)
}

// EnergyController accepts a step when the energy drift stays below
// eps·max(1, |E0|), and sizes the next step so the predicted drift sits
// near half the threshold.
type EnergyController struct {
	Eps    float64
	Safety float64
}

func (c *EnergyController) NeedsEnergy() bool { return true }

func (c *EnergyController) Accept(tr Trial) (bool, float64) {
	tol := c.Eps * math.Max(1, math.Abs(tr.E0))
	drift := math.Abs(tr.E1 - tr.E0)
	// Drift scales like h^5 for the embedded pair, so a fifth root steers
	// it toward the target.
	target := 0.5 * tol
	fac := c.Safety * math.Pow(target/math.Max(drift, 1e-300), 0.2)
	fac = math.Min(growMax, math.Max(shrinkMin, fac))
	return drift <= tol, tr.H * fac
}
