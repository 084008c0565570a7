package equilibrium

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AnalyticParams describes a synthetic equilibrium with constant q,
// constant currents and a flat field. Used by tests and the demo path of
// the CLI; the closed-orbit properties of this configuration are known
// analytically.
type AnalyticParams struct {
	// Q is the constant safety factor.
	Q float64
	// G and I are the constant plasma currents.
	G, I float64
	// B is the constant field strength.
	B float64
	// PsipWall bounds the ψp grid.
	PsipWall float64
	// N and M are the grid sizes; zero values default to 64 and 65.
	N, M int
	// ModeNumbers optionally adds gaussian-amplitude perturbation modes,
	// one (m, n, phase) triplet per mode.
	ModeNumbers [][3]float64
	// Omega applies to every generated harmonic in interpolated mode.
	Omega float64
}

// AnalyticDataset builds the synthetic dataset. The harmonic amplitude is
// a gaussian bump centred mid-radius, the placeholder shape the original
// reconstruction pipeline used before real perturbation data.
func AnalyticDataset(p AnalyticParams) *Dataset {
	if p.N == 0 {
		p.N = 64
	}
	if p.M == 0 {
		p.M = 65
	}
	if p.PsipWall == 0 {
		p.PsipWall = 1
	}

	psip := make([]float64, p.N)
	floats.Span(psip, 0, p.PsipWall)
	theta := make([]float64, p.M)
	floats.Span(theta, 0, 2*math.Pi)

	d := &Dataset{
		PsipData:  psip,
		ThetaData: theta,
		QData:     make([]float64, p.N),
		PsiData:   make([]float64, p.N),
		GData:     make([]float64, p.N),
		IData:     make([]float64, p.N),
		BData:     make([]float64, p.N*p.M),
		RData:     make([]float64, p.N*p.M),
		ZData:     make([]float64, p.N*p.M),
		PsipWall:  p.PsipWall,
		PsiWall:   p.Q * p.PsipWall,
		Baxis:     p.B,
		Raxis:     1,
	}
	for i, x := range psip {
		d.QData[i] = p.Q
		d.PsiData[i] = p.Q * x
		d.GData[i] = p.G
		d.IData[i] = p.I
		for j, th := range theta {
			k := i*p.M + j
			d.BData[k] = p.B
			rho := math.Sqrt(2 * x / p.B)
			d.RData[k] = d.Raxis + rho*math.Cos(th)
			d.ZData[k] = rho * math.Sin(th)
		}
	}

	for _, mode := range p.ModeNumbers {
		h := HarmonicData{
			M:     mode[0],
			N:     mode[1],
			Phase: mode[2],
			AData: gaussianAmplitude(psip, p.PsipWall),
			Omega: p.Omega,
		}
		if p.Omega != 0 {
			// A flat phase profile, so the interpolated mode carries ω·t.
			h.PhaseData = make([]float64, p.N)
			for i := range h.PhaseData {
				h.PhaseData[i] = mode[2]
			}
		}
		d.Harmonics = append(d.Harmonics, h)
	}
	return d
}

// gaussianAmplitude emulates a reconstructed perturbation profile: a small
// bump centred at ψp_wall/2 with width ψp_wall/4.
func gaussianAmplitude(psip []float64, wall float64) []float64 {
	const scale = 1e-4
	mu := wall / 2
	sigma := wall / 4
	out := make([]float64, len(psip))
	for i, x := range psip {
		out[i] = scale / math.Sqrt(2*math.Pi*sigma) *
			math.Exp(-(x-mu)*(x-mu)/(2*sigma*sigma))
	}
	return out
}
