package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

// Store persists run results under a base directory, one subdirectory per
// run with a metadata.json beside the CSV data.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	File       string    `json:"file"`
	Controller string    `json:"controller"`
	Atol       float64   `json:"atol"`
	Rtol       float64   `json:"rtol"`
	Particles  int       `json:"particles"`
	Section    string    `json:"section,omitempty"`
	Alpha      float64   `json:"alpha,omitempty"`
	Statuses   []string  `json:"statuses"`
}

// SaveMap writes one crossings.csv with a particle index column.
func (s *Store) SaveMap(meta RunMetadata, records []*orbit.MapResult) (string, error) {
	meta.Kind = "map"
	runDir, err := s.runDir(&meta, statusesOfMaps(records))
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "crossings.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"particle", "crossing", "angle", "flux"}); err != nil {
		return "", err
	}
	for i, rec := range records {
		if rec == nil {
			continue
		}
		for j := range rec.Angles {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				formatF(rec.Angles[j]),
				formatF(rec.Fluxes[j]),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	return meta.ID, nil
}

// SaveOrbit writes one states.csv per particle batch.
func (s *Store) SaveOrbit(meta RunMetadata, records []*orbit.Result) (string, error) {
	meta.Kind = "orbit"
	runDir, err := s.runDir(&meta, statusesOfOrbits(records))
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	header := []string{"particle", "time", "theta", "psip", "rho", "zeta", "psi", "ptheta", "pzeta"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for i, rec := range records {
		if rec == nil {
			continue
		}
		for _, p := range rec.Evolution.Points() {
			row := []string{
				strconv.Itoa(i),
				formatF(p.T), formatF(p.Theta), formatF(p.Psip), formatF(p.Rho),
				formatF(p.Zeta), formatF(p.Psi), formatF(p.Ptheta), formatF(p.Pzeta),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	return meta.ID, nil
}

// List returns the metadata of every stored run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) runDir(meta *RunMetadata, statuses []string) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Kind, time.Now().Unix())
	}
	meta.Timestamp = time.Now()
	meta.Statuses = statuses

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runDir, nil
}

func statusesOfMaps(records []*orbit.MapResult) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		if rec != nil {
			out[i] = rec.Status.String()
		}
	}
	return out
}

func statusesOfOrbits(records []*orbit.Result) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		if rec != nil {
			out[i] = rec.Status.String()
		}
	}
	return out
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}
