// Package orbit integrates guiding-centre orbits in a tokamak equilibrium.
//
// The running state is the four-vector (θ, ψp, ρ‖, ζ) with time as the
// independent variable; the magnetic moment μ is a constant of motion held
// by the [System]. The integrator is an embedded Runge-Kutta-Fehlberg 4(5)
// pair with interchangeable step controllers (local truncation error or
// energy drift), and the event layer places surface-of-section crossings
// with Hénon's trick: near a crossing the independent variable is swapped
// with the monitored angle and one reduced step lands exactly on the
// section.
//
// Systems are cheap and per-worker: they carry the accelerator pair and
// scratch state, while the equilibrium components they point at are shared
// and read-only.
package orbit
