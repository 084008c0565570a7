package orbit

// Fehlberg 4(5) coefficients. Six stages give a 4th and a 5th order
// estimate; the 5th-order value is the one propagated.
var (
	fc2 = 1.0 / 4.0
	fc3 = 3.0 / 8.0
	fc4 = 12.0 / 13.0
	fc6 = 1.0 / 2.0

	fb21 = 1.0 / 4.0
	fb31 = 3.0 / 32.0
	fb32 = 9.0 / 32.0
	fb41 = 1932.0 / 2197.0
	fb42 = -7200.0 / 2197.0
	fb43 = 7296.0 / 2197.0
	fb51 = 439.0 / 216.0
	fb52 = -8.0
	fb53 = 3680.0 / 513.0
	fb54 = -845.0 / 4104.0
	fb61 = -8.0 / 27.0
	fb62 = 2.0
	fb63 = -3544.0 / 2565.0
	fb64 = 1859.0 / 4104.0
	fb65 = -11.0 / 40.0

	// 4th order weights.
	f4w1 = 25.0 / 216.0
	f4w3 = 1408.0 / 2565.0
	f4w4 = 2197.0 / 4104.0
	f4w5 = -1.0 / 5.0

	// 5th order weights.
	f5w1 = 16.0 / 135.0
	f5w3 = 6656.0 / 12825.0
	f5w4 = 28561.0 / 56430.0
	f5w5 = -9.0 / 50.0
	f5w6 = 2.0 / 55.0
)

// derivFunc is a right-hand side ẏ = f(t, y). The independent variable is
// time in the main loop and the monitored angle inside a Hénon step.
type derivFunc func(t float64, y Vector) Vector

// rkfStages runs the six Fehlberg stages from (t, y) with step h and
// returns the embedded 4th and 5th order estimates.
func rkfStages(f derivFunc, t float64, y Vector, h float64) (y4, y5 Vector) {
	k1 := f(t, y)

	var s Vector
	for i := range s {
		s[i] = y[i] + h*fb21*k1[i]
	}
	k2 := f(t+fc2*h, s)

	for i := range s {
		s[i] = y[i] + h*(fb31*k1[i]+fb32*k2[i])
	}
	k3 := f(t+fc3*h, s)

	for i := range s {
		s[i] = y[i] + h*(fb41*k1[i]+fb42*k2[i]+fb43*k3[i])
	}
	k4 := f(t+fc4*h, s)

	for i := range s {
		s[i] = y[i] + h*(fb51*k1[i]+fb52*k2[i]+fb53*k3[i]+fb54*k4[i])
	}
	k5 := f(t+h, s)

	for i := range s {
		s[i] = y[i] + h*(fb61*k1[i]+fb62*k2[i]+fb63*k3[i]+fb64*k4[i]+fb65*k5[i])
	}
	k6 := f(t+fc6*h, s)

	for i := range y4 {
		y4[i] = y[i] + h*(f4w1*k1[i]+f4w3*k3[i]+f4w4*k4[i]+f4w5*k5[i])
		y5[i] = y[i] + h*(f5w1*k1[i]+f5w3*k3[i]+f5w4*k4[i]+f5w5*k5[i]+f5w6*k6[i])
	}
	return y4, y5
}
