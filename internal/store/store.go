package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/webcloth/internal/sim"
)

// Store keeps recorded runs on disk, one directory per run holding
// metadata.json and trace.csv.
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Frames    int                `json:"frames"`
	FPS       int                `json:"fps"`
	Ripples   int                `json:"ripples"`
	Metrics   map[string]float64 `json:"metrics"`
}

var traceHeader = []string{"frame", "time", "max_displacement", "kinetic_energy", "residual"}

// Save writes meta and the trace under a new run id and returns the id.
func (s *Store) Save(meta RunMetadata, trace *Trace) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, trace); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCSV writes the trace with a header row.
func WriteCSV(out io.Writer, trace *Trace) error {
	w := csv.NewWriter(out)
	if err := w.Write(traceHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, smp := range trace.Samples {
		row := []string{strconv.Itoa(smp.Frame), f(smp.Time), f(smp.MaxDisplacement), f(smp.KineticEnergy), f(smp.Residual)}
		if err := w.Write(row); err != nil {
			return err
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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	trace := NewTrace(1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) != len(traceHeader) {
			return nil, fmt.Errorf("%s trace.csv line %d: expected %d fields, got %d", runID, i+1, len(traceHeader), len(rec))
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s trace.csv line %d: %w", runID, i+1, err)
		}
		var vals [4]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				return nil, fmt.Errorf("%s trace.csv line %d: %w", runID, i+1, err)
			}
		}
		trace.Samples = append(trace.Samples, Sample{
			Frame: frame, Time: vals[0], MaxDisplacement: vals[1], KineticEnergy: vals[2], Residual: vals[3],
		})
	}
	return trace, nil
}

// ExportData is a run with its trace, as written by ExportJSON.
type ExportData struct {
	Run     RunMetadata `json:"run"`
	Samples []Sample    `json:"samples"`
}

func ExportJSON(out io.Writer, meta RunMetadata, trace *Trace) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Samples: trace.Samples})
}

// Metadata fills a RunMetadata from a finished run.
func Metadata(preset string, s *sim.Simulator, res *sim.Result) RunMetadata {
	l := s.Lattice()
	return RunMetadata{
		Preset:  preset,
		Seed:    s.Options().Seed,
		Width:   l.Width,
		Height:  l.Height,
		Frames:  res.Frames,
		FPS:     s.Options().FPS,
		Ripples: res.Ripples,
		Metrics: res.Metrics,
	}
}
