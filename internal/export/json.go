package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
	"github.com/san-kum/cylsim/internal/storage"
)

type ExportData struct {
	Run     storage.RunMetadata `json:"run"`
	Steps   int                 `json:"steps"`
	Trace   []sim.TickStats     `json:"trace"`
	Frames  []physics.Frame     `json:"frames,omitempty"`
	Metrics map[string]float64  `json:"metrics"`
}

func newExportData(meta storage.RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Run:     meta,
		Steps:   result.StepsTaken,
		Trace:   result.Trace,
		Frames:  result.Frames,
		Metrics: result.Metrics,
	}
}

func ExportJSON(path string, meta storage.RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, result)
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}
