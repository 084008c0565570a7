package poincare

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/equilibrium"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

func testBatch(t *testing.T) *Batch {
	t.Helper()
	d := equilibrium.AnalyticDataset(equilibrium.AnalyticParams{
		Q: 2, G: 1, I: 0, B: 1, PsipWall: 1, N: 48, M: 49,
	})
	qf, err := equilibrium.NewQfactor(d, "Cubic")
	if err != nil {
		t.Fatal(err)
	}
	cur, err := equilibrium.NewCurrents(d, "Cubic")
	if err != nil {
		t.Fatal(err)
	}
	bf, err := equilibrium.NewBfield(d, "Bicubic")
	if err != nil {
		t.Fatal(err)
	}
	par := orbit.DefaultParams()
	par.HMax = 5
	return &Batch{Qfactor: qf, Currents: cur, Bfield: bf, Params: par}
}

func uniformIC(k int) InitialConditions {
	ic := InitialConditions{
		Theta: make([]float64, k),
		Psip:  make([]float64, k),
		Rho:   make([]float64, k),
		Zeta:  make([]float64, k),
		Mu:    make([]float64, k),
	}
	for i := 0; i < k; i++ {
		ic.Psip[i] = 0.1
		ic.Rho[i] = 0.01
		ic.Mu[i] = 0.5
	}
	return ic
}

func TestInitialConditions_Validate(t *testing.T) {
	ic := uniformIC(4)
	if err := ic.Validate(); err != nil {
		t.Fatal(err)
	}
	ic.Mu = ic.Mu[:2]
	if err := ic.Validate(); err == nil {
		t.Error("expected mismatch error")
	}
	if err := (InitialConditions{}).Validate(); err == nil {
		t.Error("expected empty error")
	}
}

func TestRunMap_ThetaSection(t *testing.T) {
	b := testBatch(t)
	ic := uniformIC(1)
	mp := orbit.MapParams{Coord: orbit.IdxTheta, Alpha: 0, Intersections: 5}

	out, err := b.RunMap(context.Background(), ic, mp)
	if err != nil {
		t.Fatal(err)
	}
	rec := out.Records[0]
	if rec.Status != orbit.Completed {
		t.Fatalf("status %v", rec.Status)
	}
	if len(rec.Fluxes) != 5 || len(rec.Angles) != 5 {
		t.Fatalf("recorded %d/%d crossings, want 5", len(rec.Angles), len(rec.Fluxes))
	}

	// Constant-q orbit: flux is frozen, ζ advances by 2πq per crossing.
	for i, flux := range rec.Fluxes {
		if math.Abs(flux-0.1) > 1e-8 {
			t.Errorf("crossing %d: psip = %v, want 0.1", i, flux)
		}
	}
	for i := 1; i < len(rec.Angles); i++ {
		step := rec.Angles[i] - rec.Angles[i-1]
		if math.Abs(step-2*math.Pi*2) > 1e-6 {
			t.Errorf("zeta step %d: %v, want %v", i, step, 4*math.Pi)
		}
	}
}

func TestRunMap_CrossingsLandOnSection(t *testing.T) {
	// ζ-section: the recorded angle is θ. Verify the events sit on the
	// section by checking the count and the θ spacing between crossings;
	// the section residual of θ-events is covered through the recorded ζ
	// spacing above.
	b := testBatch(t)
	ic := uniformIC(1)
	mp := orbit.MapParams{Coord: orbit.IdxZeta, Alpha: 1.0, Intersections: 4}

	out, err := b.RunMap(context.Background(), ic, mp)
	if err != nil {
		t.Fatal(err)
	}
	rec := out.Records[0]
	if len(rec.Angles) != 4 {
		t.Fatalf("recorded %d crossings", len(rec.Angles))
	}
	// θ advances 2π/q per toroidal turn.
	for i := 1; i < len(rec.Angles); i++ {
		step := rec.Angles[i] - rec.Angles[i-1]
		if math.Abs(step-math.Pi) > 1e-6 {
			t.Errorf("theta step %d: %v, want π", i, step)
		}
	}
}

func TestRunMap_ParallelDeterminism(t *testing.T) {
	b := testBatch(t)
	b.Workers = 8
	const k = 64
	ic := uniformIC(k)
	mp := orbit.MapParams{Coord: orbit.IdxTheta, Alpha: 0, Intersections: 3}

	out, err := b.RunMap(context.Background(), ic, mp)
	if err != nil {
		t.Fatal(err)
	}
	ref := out.Records[0]
	for i := 1; i < k; i++ {
		rec := out.Records[i]
		if len(rec.Angles) != len(ref.Angles) {
			t.Fatalf("particle %d: %d crossings vs %d", i, len(rec.Angles), len(ref.Angles))
		}
		for j := range rec.Angles {
			if rec.Angles[j] != ref.Angles[j] || rec.Fluxes[j] != ref.Fluxes[j] {
				t.Fatalf("particle %d crossing %d differs bitwise", i, j)
			}
		}
	}
}

func TestRunMap_SiblingsSurviveEscapes(t *testing.T) {
	b := testBatch(t)
	ic := uniformIC(3)
	// Park the middle particle outside the wall so its first step escapes.
	ic.Psip[1] = 1.5

	mp := orbit.MapParams{Coord: orbit.IdxTheta, Alpha: 0, Intersections: 2}
	out, err := b.RunMap(context.Background(), ic, mp)
	if err != nil {
		t.Fatal(err)
	}
	if out.Statuses[0] != orbit.Completed || out.Statuses[2] != orbit.Completed {
		t.Errorf("siblings did not complete: %v", out.Statuses)
	}
	if out.Statuses[1] == orbit.Completed {
		t.Errorf("runaway particle completed: %v", out.Statuses[1])
	}
}

func TestRunOrbits_ProgressAndCancellation(t *testing.T) {
	b := testBatch(t)
	var calls atomic.Int64
	b.OnProgress = func(done int) { calls.Add(1) }

	ic := uniformIC(4)
	out, err := b.RunOrbits(context.Background(), ic, 10)
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 4 {
		t.Errorf("progress calls: %d", calls.Load())
	}
	for i, rec := range out.Records {
		if rec.Status != orbit.Completed {
			t.Errorf("particle %d: %v", i, rec.Status)
		}
		if rec.Evolution.Len() == 0 {
			t.Errorf("particle %d: empty evolution", i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err = b.RunOrbits(ctx, ic, 1e9)
	if err != nil {
		t.Fatal(err)
	}
	for i, st := range out.Statuses {
		if st != orbit.Cancelled {
			t.Errorf("particle %d: %v, want Cancelled", i, st)
		}
	}
}

func TestRunMap_ConfigErrors(t *testing.T) {
	b := testBatch(t)
	ic := uniformIC(2)

	if _, err := b.RunMap(context.Background(), ic, orbit.MapParams{
		Coord: orbit.IdxTheta, Intersections: 0,
	}); err == nil {
		t.Error("zero intersections accepted")
	}

	b.Params.Safety = 2
	if _, err := b.RunMap(context.Background(), ic, orbit.MapParams{
		Coord: orbit.IdxTheta, Intersections: 1,
	}); err == nil {
		t.Error("bad params accepted")
	}
}
