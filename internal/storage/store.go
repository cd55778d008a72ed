// Package storage keeps saved runs on disk, one directory per run holding
// metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var samplesHeader = []string{"step", "time", "theta", "r", "v", "x", "y", "energy_error"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID             string             `json:"id"`
	Scheme         string             `json:"scheme"`
	Termination    string             `json:"termination"`
	Timestamp      time.Time          `json:"timestamp"`
	H              float64            `json:"h"`
	K              float64            `json:"k"`
	L              float64            `json:"l"`
	Days           float64            `json:"days"`
	Steps          int                `json:"steps"`
	Samples        int                `json:"samples"`
	InitialEnergy  float64            `json:"initial_energy"`
	MaxEnergyError float64            `json:"max_energy_error"`
	Eccentricity   float64            `json:"eccentricity"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// Save writes result under a fresh run directory and returns its id.
func (s *Store) Save(termination string, result *sim.Result) (string, error) {
	if result == nil {
		return "", dynamo.Configuration("nothing to save")
	}
	now := s.now().UTC()
	runID := fmt.Sprintf("%s_%s", result.Scheme, now.Format("20060102T150405.000000000"))
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Scheme:         result.Scheme.String(),
		Termination:    termination,
		Timestamp:      now,
		H:              result.Constants.H,
		K:              result.Constants.K,
		L:              result.Constants.L,
		Days:           result.Days(),
		Steps:          result.StepsTaken,
		Samples:        result.Len(),
		InitialEnergy:  result.InitialEnergy,
		MaxEnergyError: result.MaxEnergyError,
		Eccentricity:   result.Eccentricity,
		Metrics:        result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(samplesHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			formatFloat(smp.State.Theta),
			formatFloat(smp.State.R),
			formatFloat(smp.State.V),
			formatFloat(smp.X),
			formatFloat(smp.Y),
			formatFloat(smp.EnergyError),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(samplesHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		smp, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(rec []string) (sim.Sample, error) {
	step, err := strconv.Atoi(rec[0])
	if err != nil {
		return sim.Sample{}, err
	}
	vals := make([]float64, len(rec)-1)
	for i, field := range rec[1:] {
		if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
			return sim.Sample{}, err
		}
	}
	return sim.Sample{
		Step:        step,
		Time:        vals[0],
		State:       dynamo.State{Theta: vals[1], R: vals[2], V: vals[3]},
		X:           vals[4],
		Y:           vals[5],
		EnergyError: vals[6],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}
