package poincare

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/equilibrium"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

// InitialConditions is the array-of-arrays bundle of K particles.
type InitialConditions struct {
	Theta []float64
	Psip  []float64
	Rho   []float64
	Zeta  []float64
	Mu    []float64
}

// Len returns the particle count.
func (ic InitialConditions) Len() int { return len(ic.Theta) }

// Validate requires equal-length non-empty arrays.
func (ic InitialConditions) Validate() error {
	k := len(ic.Theta)
	if k == 0 {
		return fmt.Errorf("%w: empty initial conditions", orbit.ErrConfig)
	}
	for name, arr := range map[string][]float64{
		"psip": ic.Psip, "rho": ic.Rho, "zeta": ic.Zeta, "mu": ic.Mu,
	} {
		if len(arr) != k {
			return fmt.Errorf("%w: %s has length %d, theta has %d",
				orbit.ErrConfig, name, len(arr), k)
		}
	}
	return nil
}

// at assembles the i-th particle.
func (ic InitialConditions) at(i int) orbit.InitialConditions {
	return orbit.InitialConditions{
		Theta0: ic.Theta[i],
		Psip0:  ic.Psip[i],
		Rho0:   ic.Rho[i],
		Zeta0:  ic.Zeta[i],
		Mu:     ic.Mu[i],
	}
}

// Batch binds a shared equilibrium to run parameters.
type Batch struct {
	Qfactor      *equilibrium.Qfactor
	Currents     *equilibrium.Currents
	Bfield       *equilibrium.Bfield
	Perturbation *equilibrium.Perturbation

	Params orbit.Params

	// Workers caps the pool; 0 means all available cores.
	Workers int

	// OnProgress, when set, is called once per finished particle with the
	// number completed so far. Calls come from worker goroutines.
	OnProgress func(done int)
}

// MapOutcome aggregates a mapping batch.
type MapOutcome struct {
	Records  []*orbit.MapResult
	Statuses []orbit.Status
}

// OrbitOutcome aggregates a time-series batch.
type OrbitOutcome struct {
	Records  []*orbit.Result
	Statuses []orbit.Status
}

func (b *Batch) workers(jobs int) int {
	n := b.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > jobs {
		n = jobs
	}
	return n
}

// system builds a worker-local RHS over the shared components.
func (b *Batch) system() *orbit.System {
	return orbit.NewSystem(b.Qfactor, b.Currents, b.Bfield, b.Perturbation, 0)
}

// RunMap maps every particle onto the section. Construction errors abort
// the whole batch; per-particle terminal statuses do not.
func (b *Batch) RunMap(ctx context.Context, ic InitialConditions, mp orbit.MapParams) (*MapOutcome, error) {
	if err := ic.Validate(); err != nil {
		return nil, err
	}
	if err := mp.Validate(); err != nil {
		return nil, err
	}
	if err := b.Params.Validate(); err != nil {
		return nil, err
	}

	k := ic.Len()
	out := &MapOutcome{
		Records:  make([]*orbit.MapResult, k),
		Statuses: make([]orbit.Status, k),
	}

	b.dispatch(ctx, k, func(ctx context.Context, solver *orbit.Solver, i int) {
		// MapParams were validated up front; RunMap cannot fail here.
		res, _ := solver.RunMap(ctx, ic.at(i), mp)
		out.Records[i] = res
		out.Statuses[i] = res.Status
	})
	return out, nil
}

// RunOrbits integrates every particle's time series until tEnd.
func (b *Batch) RunOrbits(ctx context.Context, ic InitialConditions, tEnd float64) (*OrbitOutcome, error) {
	if err := ic.Validate(); err != nil {
		return nil, err
	}
	if err := b.Params.Validate(); err != nil {
		return nil, err
	}

	k := ic.Len()
	out := &OrbitOutcome{
		Records:  make([]*orbit.Result, k),
		Statuses: make([]orbit.Status, k),
	}

	b.dispatch(ctx, k, func(ctx context.Context, solver *orbit.Solver, i int) {
		res := solver.Run(ctx, ic.at(i), tEnd)
		out.Records[i] = res
		out.Statuses[i] = res.Status
	})
	return out, nil
}

// dispatch fans the job indices over the pool. Each worker builds its own
// system and solver once and reuses them across its jobs; results land in
// preallocated slots, so no synchronisation is needed beyond the final
// wait.
func (b *Batch) dispatch(ctx context.Context, k int, run func(context.Context, *orbit.Solver, int)) {
	workers := b.workers(k)
	jobs := make(chan int)

	var done int
	var progressMu sync.Mutex
	finished := func() {
		if b.OnProgress == nil {
			return
		}
		progressMu.Lock()
		done++
		n := done
		progressMu.Unlock()
		b.OnProgress(n)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			solver, err := orbit.NewSolver(b.system(), b.Params)
			if err != nil {
				// Params were validated by the caller.
				panic(err)
			}
			for i := range jobs {
				run(ctx, solver, i)
				finished()
			}
		}()
	}

	for i := 0; i < k; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
