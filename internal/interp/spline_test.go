package interp

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func linspace(a, b float64, n int) []float64 {
	dst := make([]float64, n)
	return floats.Span(dst, a, b)
}

func sampled(xs []float64, f func(float64) float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	return ys
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"Linear", "Cubic", "Akima", "AkimaPeriodic", "Steffen"} {
		k, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if k.String() != name {
			t.Errorf("round trip: got %q, want %q", k.String(), name)
		}
	}
	if _, err := ParseKind("Quintic"); !errors.Is(err, ErrUnknownInterpolation) {
		t.Errorf("expected ErrUnknownInterpolation, got %v", err)
	}
}

func TestNew_ConstructionErrors(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}

	if _, err := New(Cubic, xs[:2], []float64{0, 1}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("short cubic: got %v", err)
	}
	if _, err := New(Akima, xs[:4], []float64{0, 1, 2, 3}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("short akima: got %v", err)
	}
	if _, err := New(Linear, []float64{0, 2, 1}, []float64{0, 1, 2}); !errors.Is(err, ErrNonMonotone) {
		t.Errorf("unsorted: got %v", err)
	}
	if _, err := New(Linear, xs, xs[:3]); !errors.Is(err, ErrMismatch) {
		t.Errorf("mismatched lengths: got %v", err)
	}
	if _, err := New(AkimaPeriodic, xs, []float64{0, 1, 0, -1, 0.5}); !errors.Is(err, ErrNonPeriodic) {
		t.Errorf("non-periodic data: got %v", err)
	}
}

func TestSpline_ReproducesNodes(t *testing.T) {
	xs := linspace(0, 3, 40)
	ys := sampled(xs, math.Sin)

	for _, kind := range []Kind{Linear, Cubic, Akima, Steffen} {
		s, err := New(kind, xs, ys)
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		acc := NewAccel()
		for i, x := range xs {
			if got := s.Eval(x, acc); math.Abs(got-ys[i]) > 1e-12 {
				t.Errorf("%v: node %d: got %v, want %v", kind, i, got, ys[i])
			}
		}
	}
}

func TestSpline_Continuity(t *testing.T) {
	xs := linspace(0, 2*math.Pi, 30)
	ys := sampled(xs, math.Cos)

	for _, kind := range []Kind{Linear, Cubic, Akima, Steffen} {
		s, err := New(kind, xs, ys)
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		acc := NewAccel()
		// Step across every knot and require no jump.
		const eps = 1e-9
		for _, knot := range xs[1 : len(xs)-1] {
			lo := s.Eval(knot-eps, acc)
			hi := s.Eval(knot+eps, acc)
			if math.Abs(hi-lo) > 1e-6 {
				t.Errorf("%v: discontinuity at knot %v: %v vs %v", kind, knot, lo, hi)
			}
		}
	}
}

func TestCubic_DerivMatchesFiniteDifference(t *testing.T) {
	xs := linspace(0, 2, 60)
	ys := sampled(xs, func(x float64) float64 { return math.Exp(-x) * math.Sin(3*x) })
	s, err := New(Cubic, xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	acc := NewAccel()
	const h = 1e-6
	for _, x := range linspace(0.1, 1.9, 50) {
		want := (s.Eval(x+h, acc) - s.Eval(x-h, acc)) / (2 * h)
		got := s.Deriv(x, acc)
		scale := math.Max(1, math.Abs(want))
		if math.Abs(got-want) > 1e-6*scale {
			t.Errorf("deriv at %v: got %v, central difference %v", x, got, want)
		}
	}
}

func TestCubic_Deriv2MatchesFiniteDifference(t *testing.T) {
	xs := linspace(0, 2, 80)
	ys := sampled(xs, func(x float64) float64 { return x * x * x })
	s, err := New(Cubic, xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	acc := NewAccel()
	const h = 1e-4
	for _, x := range linspace(0.3, 1.7, 20) {
		want := (s.Eval(x+h, acc) - 2*s.Eval(x, acc) + s.Eval(x-h, acc)) / (h * h)
		got := s.Deriv2(x, acc)
		if math.Abs(got-want) > 1e-3*math.Max(1, math.Abs(want)) {
			t.Errorf("deriv2 at %v: got %v, want %v", x, got, want)
		}
	}
}

func TestSteffen_NoOvershoot(t *testing.T) {
	// Step-like monotone data. A natural cubic would ring here; Steffen
	// must stay inside the data range.
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 0, 0.05, 0.95, 1, 1}
	s, err := New(Steffen, xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	acc := NewAccel()
	for _, x := range linspace(0, 5, 500) {
		v := s.Eval(x, acc)
		if v < -1e-12 || v > 1+1e-12 {
			t.Fatalf("overshoot at %v: %v", x, v)
		}
	}
}

func TestAkimaPeriodic_WrapsQueries(t *testing.T) {
	xs := linspace(0, 2*math.Pi, 41)
	ys := sampled(xs, math.Cos) // cos(0) == cos(2π)
	s, err := New(AkimaPeriodic, xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	acc := NewAccel()
	for _, x := range []float64{0.3, 1.7, 2.9} {
		base := s.Eval(x, acc)
		for _, shift := range []float64{2 * math.Pi, -2 * math.Pi, 6 * math.Pi} {
			if got := s.Eval(x+shift, acc); math.Abs(got-base) > 1e-12 {
				t.Errorf("wrap at %v+%v: got %v, want %v", x, shift, got, base)
			}
		}
	}
}

func TestSpline_LinearExtrapolation(t *testing.T) {
	xs := linspace(0, 1, 20)
	ys := sampled(xs, func(x float64) float64 { return 2*x + 1 })
	s, err := New(Cubic, xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	acc := NewAccel()
	for _, x := range []float64{-0.5, 1.5} {
		if got := s.Eval(x, acc); math.Abs(got-(2*x+1)) > 1e-9 {
			t.Errorf("extrapolation at %v: got %v, want %v", x, got, 2*x+1)
		}
		if got := s.Deriv(x, acc); math.Abs(got-2) > 1e-9 {
			t.Errorf("extrapolated slope at %v: got %v, want 2", x, got)
		}
		if got := s.Deriv2(x, acc); got != 0 {
			t.Errorf("extrapolated curvature at %v: got %v, want 0", x, got)
		}
	}
}

func TestSpline_CheckDomain(t *testing.T) {
	xs := linspace(0, 1, 10)
	s, err := New(Linear, xs, xs)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CheckDomain(0.5); err != nil {
		t.Errorf("inside: %v", err)
	}
	if err := s.CheckDomain(1.5); !errors.Is(err, ErrDomain) {
		t.Errorf("outside: got %v", err)
	}
}
