package equilibrium

import (
	"fmt"
	"math"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/interp"
)

// HarmonicData is the raw description of one perturbation harmonic.
type HarmonicData struct {
	// M and N are the θ and ζ mode numbers.
	M, N float64
	// Phase is the scalar initial phase φ0.
	Phase float64
	// AData is the amplitude a(ψp) sampled on the dataset's ψp grid.
	AData []float64
	// PhaseData, when non-empty, holds φ(ψp) samples for the
	// phase-interpolated mode.
	PhaseData []float64
	// Omega is the rotation frequency of the phase-interpolated mode.
	Omega float64
}

// Dataset holds the validated numeric content of an equilibrium file.
//
// The 2D arrays are row-major over (ψp, θ): BData[i*len(ThetaData)+j]
// is b(PsipData[i], ThetaData[j]).
type Dataset struct {
	PsipData []float64
	QData    []float64
	PsiData  []float64
	GData    []float64
	IData    []float64

	ThetaData []float64
	BData     []float64
	RData     []float64
	ZData     []float64

	// Optional pre-tabulated partials of b; empty when the file omits them.
	DbDpsipData  []float64
	DbDthetaData []float64

	PsipWall float64
	PsiWall  float64
	Baxis    float64
	Raxis    float64

	Harmonics []HarmonicData
}

// Validate checks the §6 input contract: presence, finiteness, monotone
// abscissa and shape agreement. It does not enforce the ψ(0)=0 and
// q-derivation cross-checks; those are reported by
// [Qfactor.ConsistencyReport].
func (d *Dataset) Validate() error {
	n := len(d.PsipData)
	if n == 0 {
		return fmt.Errorf("%w: psip_data is missing or empty", ErrMalformedInput)
	}
	m := len(d.ThetaData)
	if m == 0 {
		return fmt.Errorf("%w: theta_data is missing or empty", ErrMalformedInput)
	}

	oneD := map[string][]float64{
		"q_data":   d.QData,
		"psi_data": d.PsiData,
		"g_data":   d.GData,
		"i_data":   d.IData,
	}
	for name, arr := range oneD {
		if len(arr) == 0 {
			return fmt.Errorf("%w: %s is missing", ErrMalformedInput, name)
		}
		if len(arr) != n {
			return fmt.Errorf("%w: %s has length %d, psip_data has %d",
				ErrShapeMismatch, name, len(arr), n)
		}
	}

	twoD := map[string][]float64{
		"b_data": d.BData,
		"r_data": d.RData,
		"z_data": d.ZData,
	}
	for name, arr := range twoD {
		if len(arr) == 0 {
			return fmt.Errorf("%w: %s is missing", ErrMalformedInput, name)
		}
		if len(arr) != n*m {
			return fmt.Errorf("%w: %s has %d values, grid is %dx%d",
				ErrShapeMismatch, name, len(arr), n, m)
		}
	}
	for name, arr := range map[string][]float64{
		"db_dpsip_data":  d.DbDpsipData,
		"db_dtheta_data": d.DbDthetaData,
	} {
		if len(arr) != 0 && len(arr) != n*m {
			return fmt.Errorf("%w: %s has %d values, grid is %dx%d",
				ErrShapeMismatch, name, len(arr), n, m)
		}
	}

	for i := 1; i < n; i++ {
		if !(d.PsipData[i] > d.PsipData[i-1]) {
			return fmt.Errorf("equilibrium: psip_data: %w", interp.ErrNonMonotone)
		}
	}
	for i := 1; i < m; i++ {
		if !(d.ThetaData[i] > d.ThetaData[i-1]) {
			return fmt.Errorf("equilibrium: theta_data: %w", interp.ErrNonMonotone)
		}
	}

	check := func(name string, arr []float64) error {
		for i, v := range arr {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] is not finite", ErrMalformedInput, name, i)
			}
		}
		return nil
	}
	all := map[string][]float64{
		"psip_data": d.PsipData, "theta_data": d.ThetaData,
		"q_data": d.QData, "psi_data": d.PsiData,
		"g_data": d.GData, "i_data": d.IData,
		"b_data": d.BData, "r_data": d.RData, "z_data": d.ZData,
		"db_dpsip_data": d.DbDpsipData, "db_dtheta_data": d.DbDthetaData,
	}
	for name, arr := range all {
		if err := check(name, arr); err != nil {
			return err
		}
	}
	for _, scalar := range []float64{d.PsipWall, d.PsiWall, d.Baxis, d.Raxis} {
		if math.IsNaN(scalar) || math.IsInf(scalar, 0) {
			return fmt.Errorf("%w: scalar attribute is not finite", ErrMalformedInput)
		}
	}

	for k, h := range d.Harmonics {
		if len(h.AData) != n {
			return fmt.Errorf("%w: harmonic %d a_data has length %d, psip_data has %d",
				ErrShapeMismatch, k, len(h.AData), n)
		}
		if err := check(fmt.Sprintf("harmonic %d a_data", k), h.AData); err != nil {
			return err
		}
		if len(h.PhaseData) != 0 && len(h.PhaseData) != n {
			return fmt.Errorf("%w: harmonic %d phase array has length %d, psip_data has %d",
				ErrShapeMismatch, k, len(h.PhaseData), n)
		}
	}
	return nil
}

// Report summarises the soft consistency checks: how far ψ(0) sits from
// zero and the worst disagreement between the tabulated q and the dψ/dψp
// derived from the ψ spline. Reported, never enforced.
type Report struct {
	PsiAtAxis    float64
	MaxQResidual float64
}

func (r Report) String() string {
	return fmt.Sprintf("psi(0)=%.3e, max|q - dpsi/dpsip|=%.3e", r.PsiAtAxis, r.MaxQResidual)
}
