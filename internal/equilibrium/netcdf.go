package equilibrium

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// The NetCDF layout uses three dimensions: "psip" (N), "theta" (M) and
// "scalar" (1). Scalar attributes are stored as length-1 variables on the
// scalar dimension; 2D variables are (psip, theta) row-major. Perturbation
// harmonics are flattened into numbered variables harmonic<k>_a_data,
// harmonic<k>_m, harmonic<k>_n, harmonic<k>_phase and optionally
// harmonic<k>_phase_data and harmonic<k>_omega, counted by n_harmonics.

// LoadNetCDF reads and validates an equilibrium dataset.
func LoadNetCDF(path string) (*Dataset, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("equilibrium: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := cdf.Open(fh)
	if err != nil {
		return nil, fmt.Errorf("equilibrium: read %s: %w", path, err)
	}

	d := &Dataset{}
	load := []struct {
		name string
		dst  *[]float64
	}{
		{"psip_data", &d.PsipData},
		{"q_data", &d.QData},
		{"psi_data", &d.PsiData},
		{"g_data", &d.GData},
		{"i_data", &d.IData},
		{"theta_data", &d.ThetaData},
		{"b_data", &d.BData},
		{"r_data", &d.RData},
		{"z_data", &d.ZData},
	}
	for _, v := range load {
		arr, err := readVar(f, v.name)
		if err != nil {
			return nil, err
		}
		*v.dst = arr
	}
	// Optional pre-tabulated field partials.
	if hasVar(f, "db_dpsip_data") {
		if d.DbDpsipData, err = readVar(f, "db_dpsip_data"); err != nil {
			return nil, err
		}
	}
	if hasVar(f, "db_dtheta_data") {
		if d.DbDthetaData, err = readVar(f, "db_dtheta_data"); err != nil {
			return nil, err
		}
	}

	scalars := []struct {
		name string
		dst  *float64
	}{
		{"psip_wall", &d.PsipWall},
		{"psi_wall", &d.PsiWall},
		{"baxis", &d.Baxis},
		{"raxis", &d.Raxis},
	}
	for _, v := range scalars {
		val, err := readScalar(f, v.name)
		if err != nil {
			return nil, err
		}
		*v.dst = val
	}

	if hasVar(f, "n_harmonics") {
		count, err := readScalar(f, "n_harmonics")
		if err != nil {
			return nil, err
		}
		for k := 0; k < int(count); k++ {
			h := HarmonicData{}
			prefix := fmt.Sprintf("harmonic%d_", k)
			if h.AData, err = readVar(f, prefix+"a_data"); err != nil {
				return nil, err
			}
			if h.M, err = readScalar(f, prefix+"m"); err != nil {
				return nil, err
			}
			if h.N, err = readScalar(f, prefix+"n"); err != nil {
				return nil, err
			}
			if h.Phase, err = readScalar(f, prefix+"phase"); err != nil {
				return nil, err
			}
			if hasVar(f, prefix+"phase_data") {
				if h.PhaseData, err = readVar(f, prefix+"phase_data"); err != nil {
					return nil, err
				}
			}
			if hasVar(f, prefix+"omega") {
				if h.Omega, err = readScalar(f, prefix+"omega"); err != nil {
					return nil, err
				}
			}
			d.Harmonics = append(d.Harmonics, h)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// WriteNetCDF writes a dataset in the layout LoadNetCDF reads. Used by the
// test fixtures.
func WriteNetCDF(path string, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	n, m := len(d.PsipData), len(d.ThetaData)

	h := cdf.NewHeader([]string{"psip", "theta", "scalar"}, []int{n, m, 1})
	h.AddAttribute("", "comment", "tokamak equilibrium reconstruction")

	oneD := []string{"psip_data", "q_data", "psi_data", "g_data", "i_data"}
	for _, name := range oneD {
		h.AddVariable(name, []string{"psip"}, []float64{0})
	}
	h.AddVariable("theta_data", []string{"theta"}, []float64{0})
	twoD := []string{"b_data", "r_data", "z_data"}
	if len(d.DbDpsipData) != 0 {
		twoD = append(twoD, "db_dpsip_data")
	}
	if len(d.DbDthetaData) != 0 {
		twoD = append(twoD, "db_dtheta_data")
	}
	for _, name := range twoD {
		h.AddVariable(name, []string{"psip", "theta"}, []float64{0})
	}
	scalars := []string{"psip_wall", "psi_wall", "baxis", "raxis"}
	if len(d.Harmonics) != 0 {
		scalars = append(scalars, "n_harmonics")
	}
	for k, hd := range d.Harmonics {
		prefix := fmt.Sprintf("harmonic%d_", k)
		h.AddVariable(prefix+"a_data", []string{"psip"}, []float64{0})
		scalars = append(scalars, prefix+"m", prefix+"n", prefix+"phase")
		if len(hd.PhaseData) != 0 {
			h.AddVariable(prefix+"phase_data", []string{"psip"}, []float64{0})
			scalars = append(scalars, prefix+"omega")
		}
	}
	for _, name := range scalars {
		h.AddVariable(name, []string{"scalar"}, []float64{0})
	}
	h.Define()

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("equilibrium: create %s: %w", path, err)
	}
	defer fh.Close()

	f, err := cdf.Create(fh, h)
	if err != nil {
		return fmt.Errorf("equilibrium: write header: %w", err)
	}

	write := func(name string, data []float64) error {
		end := f.Header.Lengths(name)
		w := f.Writer(name, make([]int, len(end)), end)
		if _, werr := w.Write(data); werr != nil {
			return fmt.Errorf("equilibrium: write %s: %w", name, werr)
		}
		return nil
	}

	for name, data := range map[string][]float64{
		"psip_data": d.PsipData, "q_data": d.QData, "psi_data": d.PsiData,
		"g_data": d.GData, "i_data": d.IData,
		"theta_data": d.ThetaData,
		"b_data":     d.BData, "r_data": d.RData, "z_data": d.ZData,
		"psip_wall": {d.PsipWall}, "psi_wall": {d.PsiWall},
		"baxis": {d.Baxis}, "raxis": {d.Raxis},
	} {
		if err := write(name, data); err != nil {
			return err
		}
	}
	if len(d.DbDpsipData) != 0 {
		if err := write("db_dpsip_data", d.DbDpsipData); err != nil {
			return err
		}
	}
	if len(d.DbDthetaData) != 0 {
		if err := write("db_dtheta_data", d.DbDthetaData); err != nil {
			return err
		}
	}
	if len(d.Harmonics) != 0 {
		if err := write("n_harmonics", []float64{float64(len(d.Harmonics))}); err != nil {
			return err
		}
		for k, hd := range d.Harmonics {
			prefix := fmt.Sprintf("harmonic%d_", k)
			for name, data := range map[string][]float64{
				prefix + "a_data": hd.AData,
				prefix + "m":      {hd.M},
				prefix + "n":      {hd.N},
				prefix + "phase":  {hd.Phase},
			} {
				if err := write(name, data); err != nil {
					return err
				}
			}
			if len(hd.PhaseData) != 0 {
				if err := write(prefix+"phase_data", hd.PhaseData); err != nil {
					return err
				}
				if err := write(prefix+"omega", []float64{hd.Omega}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func hasVar(f *cdf.File, name string) bool {
	return len(f.Header.Lengths(name)) != 0
}

func readVar(f *cdf.File, name string) ([]float64, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: variable %q not in file", ErrMalformedInput, name)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("equilibrium: read %s: %w", name, err)
	}
	switch v := buf.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: variable %q has non-float type", ErrMalformedInput, name)
	}
}

func readScalar(f *cdf.File, name string) (float64, error) {
	arr, err := readVar(f, name)
	if err != nil {
		return 0, err
	}
	if len(arr) != 1 {
		return 0, fmt.Errorf("%w: variable %q is not scalar", ErrShapeMismatch, name)
	}
	return arr[0], nil
}
