package orbit

import "math"

// Indices into the state [Vector].
const (
	IdxTheta = iota
	IdxPsip
	IdxRho
	IdxZeta
)

// Vector is the running state (θ, ψp, ρ‖, ζ). Angles are kept unwrapped;
// they are reduced modulo 2π only when compared against a section.
type Vector [4]float64

// IsFinite reports whether every component is a normal number.
func (v Vector) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// InitialConditions seed one particle.
type InitialConditions struct {
	T0     float64
	Theta0 float64
	Psip0  float64
	Rho0   float64
	Zeta0  float64
	// Mu is the magnetic moment, constant along the orbit.
	Mu float64
}

// Vector returns the state portion of the initial conditions.
func (ic InitialConditions) Vector() Vector {
	return Vector{ic.Theta0, ic.Psip0, ic.Rho0, ic.Zeta0}
}

// Point is one stored row of an orbit: the state plus the derived
// quantities ψ, pθ and pζ.
type Point struct {
	T      float64
	Theta  float64
	Psip   float64
	Rho    float64
	Zeta   float64
	Psi    float64
	Ptheta float64
	Pzeta  float64
}
