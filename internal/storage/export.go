package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/heliosim/internal/sim"
)

// ExportData is the JSON document consumed by external renderers.
type ExportData struct {
	Scheme         string             `json:"scheme"`
	Termination    string             `json:"termination"`
	H              float64            `json:"h"`
	K              float64            `json:"k"`
	Days           float64            `json:"days"`
	Steps          int                `json:"steps"`
	InitialEnergy  float64            `json:"initial_energy"`
	MaxEnergyError float64            `json:"max_energy_error"`
	Eccentricity   float64            `json:"eccentricity"`
	Samples        []sim.Sample       `json:"samples"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(termination string, result *sim.Result) ExportData {
	return ExportData{
		Scheme:         result.Scheme.String(),
		Termination:    termination,
		H:              result.Constants.H,
		K:              result.Constants.K,
		Days:           result.Days(),
		Steps:          result.StepsTaken,
		InitialEnergy:  result.InitialEnergy,
		MaxEnergyError: result.MaxEnergyError,
		Eccentricity:   result.Eccentricity,
		Samples:        result.Samples,
		Metrics:        result.Metrics,
	}
}

// WriteJSON encodes result to w. A nil sample list is written as [].
func WriteJSON(w io.Writer, termination string, result *sim.Result) error {
	data := NewExportData(termination, result)
	return encodeJSON(w, data)
}

func encodeJSON(w io.Writer, data ExportData) error {
	if data.Samples == nil {
		data.Samples = []sim.Sample{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes result to path, or to stdout when path is "-".
func ExportJSON(path, termination string, result *sim.Result) error {
	if path == "-" {
		return WriteJSON(os.Stdout, termination, result)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteJSON(f, termination, result); err != nil {
		return err
	}
	return f.Close()
}

// ExportRun writes a saved run as JSON to path, or to stdout for "-".
func (s *Store) ExportRun(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	data := ExportData{
		Scheme:         meta.Scheme,
		Termination:    meta.Termination,
		H:              meta.H,
		K:              meta.K,
		Days:           meta.Days,
		Steps:          meta.Steps,
		InitialEnergy:  meta.InitialEnergy,
		MaxEnergyError: meta.MaxEnergyError,
		Eccentricity:   meta.Eccentricity,
		Samples:        samples,
		Metrics:        meta.Metrics,
	}
	if path == "-" {
		return encodeJSON(os.Stdout, data)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encodeJSON(f, data); err != nil {
		return err
	}
	return f.Close()
}
