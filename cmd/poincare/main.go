package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/config"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/equilibrium"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/poincare"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/storage"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/tui"
	"github.com/George-Tsiamasiotis/poincare-maps/internal/viz"
)

var (
	configFile string
	eqFile     string
	demo       bool

	interp1D   string
	interp2D   string
	controller string
	workers    int

	section       string
	alpha         float64
	intersections int

	theta0 float64
	psip0  string
	rho0   float64
	zeta0  float64
	mu     float64

	duration float64
	dataDir  string
	live     bool
	plot     bool
)

func main() {
	root := &cobra.Command{
		Use:   "poincare",
		Short: "Poincaré maps of guiding-centre orbits in tokamak equilibria",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&eqFile, "file", "f", "", "equilibrium NetCDF file")
	root.PersistentFlags().BoolVar(&demo, "demo", false, "use the analytic demo equilibrium")
	root.PersistentFlags().StringVar(&interp1D, "interp-1d", "", "1D interpolation (Linear|Cubic|Akima|AkimaPeriodic|Steffen)")
	root.PersistentFlags().StringVar(&interp2D, "interp-2d", "", "2D interpolation (Bilinear|Bicubic)")
	root.PersistentFlags().StringVar(&controller, "controller", "", "step controller (lte|energy)")
	root.PersistentFlags().IntVar(&workers, "workers", 0, "worker count (0 = all cores)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "runs", "output directory")

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Compute a Poincaré surface-of-section map",
		RunE:  runMap,
	}
	mapCmd.Flags().StringVar(&section, "section", "", "section coordinate (theta|zeta)")
	mapCmd.Flags().Float64Var(&alpha, "alpha", 0, "section angle")
	mapCmd.Flags().IntVar(&intersections, "intersections", 0, "crossings per particle")
	mapCmd.Flags().StringVar(&psip0, "psip0", "0.1", "initial psip, comma separated per particle")
	mapCmd.Flags().Float64Var(&theta0, "theta0", 0, "initial theta")
	mapCmd.Flags().Float64Var(&rho0, "rho0", 0.01, "initial parallel gyroradius")
	mapCmd.Flags().Float64Var(&zeta0, "zeta0", 0, "initial zeta")
	mapCmd.Flags().Float64Var(&mu, "mu", 0.5, "magnetic moment")
	mapCmd.Flags().BoolVar(&live, "live", false, "live progress view")

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "Integrate a single orbit time series",
		RunE:  runOrbit,
	}
	orbitCmd.Flags().Float64Var(&duration, "duration", 100, "integration horizon")
	orbitCmd.Flags().StringVar(&psip0, "psip0", "0.1", "initial psip")
	orbitCmd.Flags().Float64Var(&theta0, "theta0", 0, "initial theta")
	orbitCmd.Flags().Float64Var(&rho0, "rho0", 0.01, "initial parallel gyroradius")
	orbitCmd.Flags().Float64Var(&zeta0, "zeta0", 0, "initial zeta")
	orbitCmd.Flags().Float64Var(&mu, "mu", 0.5, "magnetic moment")
	orbitCmd.Flags().BoolVar(&plot, "plot", false, "plot psip(t) in the terminal")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarise an equilibrium file",
		RunE:  runInspect,
	}

	root.AddCommand(mapCmd, orbitCmd, inspectCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusBad.Render(err.Error()))
		os.Exit(1)
	}
}

// loadConfig merges the file configuration with flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if eqFile != "" {
		cfg.File = eqFile
	}
	if interp1D != "" {
		cfg.Interp1D = interp1D
	}
	if interp2D != "" {
		cfg.Interp2D = interp2D
	}
	if controller != "" {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("workers") {
		cfg.WorkerCount = workers
	}
	if section != "" {
		cfg.Section = section
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if intersections != 0 {
		cfg.Intersections = intersections
	}
	return cfg, cfg.Validate()
}

// buildBatch loads the equilibrium and binds it to the configured driver.
func buildBatch(cfg *config.Config) (*poincare.Batch, *equilibrium.Dataset, error) {
	var d *equilibrium.Dataset
	switch {
	case demo || cfg.File == "":
		d = equilibrium.AnalyticDataset(equilibrium.AnalyticParams{
			Q: 2, G: 1, I: 0, B: 1, PsipWall: 1,
		})
	default:
		loaded, err := equilibrium.LoadNetCDF(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		d = loaded
	}

	qf, err := equilibrium.NewQfactor(d, cfg.Interp1D)
	if err != nil {
		return nil, nil, err
	}
	cur, err := equilibrium.NewCurrents(d, cfg.Interp1D)
	if err != nil {
		return nil, nil, err
	}
	bf, err := equilibrium.NewBfield(d, cfg.Interp2D)
	if err != nil {
		return nil, nil, err
	}
	mode, err := equilibrium.ParsePhaseMode(cfg.PhaseMode)
	if err != nil {
		return nil, nil, err
	}
	per, err := equilibrium.NewPerturbation(d, cfg.Interp1D, mode)
	if err != nil {
		return nil, nil, err
	}

	return &poincare.Batch{
		Qfactor:      qf,
		Currents:     cur,
		Bfield:       bf,
		Perturbation: per,
		Params:       cfg.Params(),
		Workers:      cfg.WorkerCount,
	}, d, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func initialConditions() (poincare.InitialConditions, error) {
	psips, err := parseFloats(psip0)
	if err != nil {
		return poincare.InitialConditions{}, err
	}
	k := len(psips)
	ic := poincare.InitialConditions{
		Theta: make([]float64, k),
		Psip:  psips,
		Rho:   make([]float64, k),
		Zeta:  make([]float64, k),
		Mu:    make([]float64, k),
	}
	for i := 0; i < k; i++ {
		ic.Theta[i] = theta0
		ic.Rho[i] = rho0
		ic.Zeta[i] = zeta0
		ic.Mu[i] = mu
	}
	return ic, nil
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	batch, _, err := buildBatch(cfg)
	if err != nil {
		return err
	}
	ic, err := initialConditions()
	if err != nil {
		return err
	}
	mp, err := cfg.MapParams()
	if err != nil {
		return err
	}

	var out *poincare.MapOutcome
	if live {
		out, err = runMapLive(batch, ic, mp)
	} else {
		out, err = batch.RunMap(context.Background(), ic, mp)
	}
	if err != nil {
		return err
	}

	fmt.Println(viz.Panel.Render(viz.SectionToASCII(out.Records, 72, 24)))
	for i, st := range out.Statuses {
		if st != orbit.Completed {
			fmt.Printf("particle %d: %s\n", i, viz.StatusBad.Render(st.String()))
		}
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.SaveMap(storage.RunMetadata{
		File:       cfg.File,
		Controller: cfg.Controller,
		Atol:       cfg.Atol,
		Rtol:       cfg.Rtol,
		Particles:  ic.Len(),
		Section:    cfg.Section,
		Alpha:      cfg.Alpha,
	}, out.Records)
	if err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("saved run " + id))
	return nil
}

// runMapLive runs the batch under a bubbletea progress view.
func runMapLive(batch *poincare.Batch, ic poincare.InitialConditions, mp orbit.MapParams) (*poincare.MapOutcome, error) {
	prog := tea.NewProgram(tui.NewModel(ic.Len()))
	batch.OnProgress = func(done int) {
		prog.Send(tui.ProgressMsg(done))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type batchDone struct {
		out *poincare.MapOutcome
		err error
	}
	ch := make(chan batchDone, 1)
	go func() {
		out, err := batch.RunMap(ctx, ic, mp)
		ch <- batchDone{out, err}
		prog.Send(tui.DoneMsg{})
	}()

	// Leaving the view early (q, ctrl+c or an error) cancels the remaining
	// particles; after a normal finish the batch has already returned.
	_, _ = prog.Run()
	cancel()
	res := <-ch
	return res.out, res.err
}

func runOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	batch, _, err := buildBatch(cfg)
	if err != nil {
		return err
	}
	ic, err := initialConditions()
	if err != nil {
		return err
	}

	out, err := batch.RunOrbits(context.Background(), ic, duration)
	if err != nil {
		return err
	}

	for i, rec := range out.Records {
		drift := math.Abs(rec.FinalEnergy - rec.InitialEnergy)
		rel := drift / math.Max(1e-300, math.Abs(rec.InitialEnergy))
		fmt.Printf("particle %d: %s  steps=%d stored=%d  |ΔE|/E=%s\n",
			i, rec.Status, rec.Evolution.StepsTaken, rec.Evolution.Len(),
			viz.MetricValue.Render(strconv.FormatFloat(rel, 'e', 2, 64)))

		if plot {
			points := rec.Evolution.Points()
			series := make([]float64, len(points))
			for j, p := range points {
				series[j] = p.Psip
			}
			fmt.Println(asciigraph.Plot(series,
				asciigraph.Height(12), asciigraph.Width(72),
				asciigraph.Caption("psip(t)")))
		}
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.SaveOrbit(storage.RunMetadata{
		File:       cfg.File,
		Controller: cfg.Controller,
		Atol:       cfg.Atol,
		Rtol:       cfg.Rtol,
		Particles:  ic.Len(),
	}, out.Records)
	if err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("saved run " + id))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, d, err := buildBatch(cfg)
	if err != nil {
		return err
	}
	qf, err := equilibrium.NewQfactor(d, cfg.Interp1D)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("equilibrium"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "psip grid\t%d points, [0, %g]\n", len(d.PsipData), d.PsipWall)
	fmt.Fprintf(w, "theta grid\t%d points\n", len(d.ThetaData))
	fmt.Fprintf(w, "psi_wall\t%g\n", d.PsiWall)
	fmt.Fprintf(w, "baxis\t%g\n", d.Baxis)
	fmt.Fprintf(w, "raxis\t%g\n", d.Raxis)
	fmt.Fprintf(w, "harmonics\t%d\n", len(d.Harmonics))
	for i, h := range d.Harmonics {
		fmt.Fprintf(w, "  mode %d\tm=%g n=%g phase=%g\n", i, h.M, h.N, h.Phase)
	}
	fmt.Fprintf(w, "consistency\t%s\n", qf.ConsistencyReport())
	return w.Flush()
}
