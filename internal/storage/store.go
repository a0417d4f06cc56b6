package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
	framesFile   = "frames.csv"
)

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
	ID          string               `json:"id"`
	Preset      string               `json:"preset"`
	Timestamp   time.Time            `json:"timestamp"`
	Seed        int64                `json:"seed"`
	Ticks       int                  `json:"ticks"`
	Particles   int                  `json:"particles"`
	Containment geometry.Containment `json:"containment"`
	Hits        physics.Hits         `json:"hits"`
	Metrics     map[string]float64   `json:"metrics"`
	Errors      []string             `json:"errors,omitempty"`
}

// Save writes meta and result under a fresh run directory and returns the
// run id. Timestamp and Hits are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.UnixNano())
	meta.Hits = result.Hits
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Trace); err != nil {
		return "", err
	}
	if len(result.Frames) > 0 {
		if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, trace []sim.TickStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "bounces", "kinetic_energy", "mean_radius"}); err != nil {
		return err
	}
	for _, st := range trace {
		row := []string{
			strconv.Itoa(st.Tick),
			strconv.Itoa(st.Bounces),
			strconv.FormatFloat(st.KineticEnergy, 'g', -1, 64),
			strconv.FormatFloat(st.MeanRadius, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFrames(path string, frames []physics.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"tick", "id", "x", "y", "z", "vx", "vy", "vz", "radius", "r", "g", "b"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		for id, p := range fr.Particles {
			row := []string{strconv.Itoa(fr.Tick), strconv.Itoa(id)}
			for _, v := range []float64{
				p.Position.X(), p.Position.Y(), p.Position.Z(),
				p.Velocity.X(), p.Velocity.Y(), p.Velocity.Z(),
				p.Radius,
			} {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			row = append(row,
				strconv.Itoa(int(p.Color.R)),
				strconv.Itoa(int(p.Color.G)),
				strconv.Itoa(int(p.Color.B)),
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *Store) LoadTrace(runID string) ([]sim.TickStats, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}

	trace := make([]sim.TickStats, 0, len(records))
	for _, rec := range records {
		if len(rec) < 4 {
			continue
		}
		tick, err1 := strconv.Atoi(rec[0])
		bounces, err2 := strconv.Atoi(rec[1])
		energy, err3 := strconv.ParseFloat(rec[2], 64)
		radius, err4 := strconv.ParseFloat(rec[3], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		trace = append(trace, sim.TickStats{Tick: tick, Bounces: bounces, KineticEnergy: energy, MeanRadius: radius})
	}

	return trace, nil
}

// LoadFrames reads recorded frames back in tick order.
func (s *Store) LoadFrames(runID string) ([]physics.Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]physics.Frame, 0)
	for _, rec := range records {
		if len(rec) < 12 {
			continue
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}

		var vals [7]float64
		ok := true
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[2+i], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		var rgb [3]uint8
		for i := range rgb {
			v, err := strconv.ParseUint(rec[9+i], 10, 8)
			if err != nil {
				ok = false
				break
			}
			rgb[i] = uint8(v)
		}
		if !ok {
			continue
		}

		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, physics.Frame{Tick: tick})
		}
		last := &frames[len(frames)-1]
		last.Particles = append(last.Particles, physics.Particle{
			Position: mgl64.Vec3{vals[0], vals[1], vals[2]},
			Velocity: mgl64.Vec3{vals[3], vals[4], vals[5]},
			Radius:   vals[6],
			Color:    physics.RGB{R: rgb[0], G: rgb[1], B: rgb[2]},
		})
	}

	return frames, nil
}
