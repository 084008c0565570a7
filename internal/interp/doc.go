// Package interp provides 1D and 2D spline interpolation over tabulated
// data, with an index accelerator that can be shared between splines built
// on the same abscissa.
//
// The interpolation variants mirror the GSL family:
//
//   - 1D: [Linear], [Cubic], [Akima], [AkimaPeriodic], [Steffen]
//   - 2D: [Bilinear], [Bicubic]
//
// The variant is chosen once at construction; evaluation dispatches through
// precomputed per-interval coefficients.
//
// # Accelerator sharing
//
// Every lookup takes an [Accel]. When several splines are defined over the
// same x data and evaluated at the same point (q, ψ, g, I at one ψp, the
// common case in the orbit right-hand side), passing the same accelerator
// to all of them performs the interval search once and reuses it:
//
//	acc := interp.NewAccel()
//	q := qspline.Eval(psip, acc)
//	g := gspline.Eval(psip, acc) // cache hit, no search
//
// Accelerators are not safe for concurrent use; each worker owns its own.
package interp
