package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/clothsim/internal/sim"
)

// ExportData is the flat JSON shape handed to external tooling.
type ExportData struct {
	ID             string             `json:"id"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Iterations     int                `json:"iterations"`
	Damping        float64            `json:"damping"`
	Gravity        float64            `json:"gravity"`
	GravityEnabled bool               `json:"gravity_enabled"`
	Probes         []int              `json:"probes"`
	Samples        int                `json:"samples"`
	Times          []float64          `json:"times"`
	Frames         [][]float64        `json:"frames"`
	Metrics        map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		ID:             meta.ID,
		Dt:             meta.Dt,
		Duration:       meta.Duration,
		Iterations:     meta.Iterations,
		Damping:        meta.Damping,
		Gravity:        meta.Gravity,
		GravityEnabled: meta.GravityEnabled,
		Probes:         meta.Probes,
		Samples:        len(result.Times),
		Times:          result.Times,
		Frames:         result.Frames,
		Metrics:        result.Metrics,
	}
}

func ExportJSONTo(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, result))
}

func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSONTo(file, meta, result)
}

func ExportJSONStdout(meta *RunMetadata, result *sim.Result) error {
	return ExportJSONTo(os.Stdout, meta, result)
}
