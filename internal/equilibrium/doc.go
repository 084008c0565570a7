// Package equilibrium models a reconstructed tokamak magnetic equilibrium.
//
// A [Dataset] carries the validated numeric arrays of an equilibrium file:
// flux functions q(ψp), ψ(ψp), plasma currents g(ψp), I(ψp) on a 1D ψp
// grid, the field strength b(ψp, θ) and the cylindrical coordinates
// R(ψp, θ), Z(ψp, θ) on the tensor grid, and optional perturbation
// harmonics. From a dataset the four components are built:
//
//   - [Qfactor]: q, ψ and dψ/dψp
//   - [Currents]: g, I and their ψp derivatives
//   - [Bfield]: b, R, Z and the first and second partials of b
//   - [Perturbation]: an ordered sum of [Harmonic] terms a(ψp)·cos(mθ−nζ+φ)
//
// All components wrap splines over the shared ψp abscissa, so a single
// [interp.Accel] serves every 1D evaluation at one point.
package equilibrium
