package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	eventsFile     = "events.csv"
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

// RunInfo describes how a run was configured.
type RunInfo struct {
	Preset     string
	Integrator string
	Effect     string
	Seed       int64
	Dt         float64
	Duration   float64
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	Effect      string             `json:"effect"`
	Steps       int                `json:"steps"`
	Triggered   bool               `json:"triggered"`
	TriggeredAt float64            `json:"triggered_at"`
	Collided    bool               `json:"collided"`
	CollidedAt  float64            `json:"collided_at"`
	FinalNodes  int                `json:"final_nodes"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata, the body trajectory and the
// event log, and returns the new run id.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	name := info.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Preset:      info.Preset,
		Timestamp:   now,
		Seed:        info.Seed,
		Dt:          info.Dt,
		Duration:    info.Duration,
		Integrator:  info.Integrator,
		Effect:      info.Effect,
		Steps:       result.StepsTaken,
		Triggered:   result.Triggered,
		TriggeredAt: result.TriggeredAt,
		Collided:    result.Collided,
		CollidedAt:  result.CollidedAt,
		FinalNodes:  result.FinalNodes,
		Metrics:     result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, trajectoryFile), trajectoryRows(result.Frames)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, eventsFile), eventRows(result.Events)); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

var trajectoryHeader = []string{"step", "time", "node", "name", "dynamic", "mass", "x", "y", "z", "vx", "vy", "vz"}

func trajectoryRows(frames []dynamo.Frame) [][]string {
	rows := [][]string{trajectoryHeader}
	for _, f := range frames {
		for _, b := range f.Bodies {
			rows = append(rows, []string{
				strconv.Itoa(f.Step),
				formatFloat(f.Time),
				strconv.Itoa(b.Node),
				b.Name,
				strconv.FormatBool(b.Dynamic),
				formatFloat(b.Mass),
				formatFloat(b.Position.X()), formatFloat(b.Position.Y()), formatFloat(b.Position.Z()),
				formatFloat(b.Velocity.X()), formatFloat(b.Velocity.Y()), formatFloat(b.Velocity.Z()),
			})
		}
	}
	return rows
}

var eventsHeader = []string{"time", "step", "kind", "nodes", "detail"}

func eventRows(events []dynamo.Event) [][]string {
	rows := [][]string{eventsHeader}
	for _, e := range events {
		rows = append(rows, []string{
			formatFloat(e.Time),
			strconv.Itoa(e.Step),
			string(e.Kind),
			strings.Join(e.Nodes, ";"),
			e.Detail,
		})
	}
	return rows
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// List returns every readable run, oldest first.
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

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", runID, name, err)
	}
	if len(records) > 0 {
		records = records[1:]
	}
	return records, nil
}

// LoadTrajectory rebuilds the recorded frames. Node counts are not stored and
// stay zero.
func (s *Store) LoadTrajectory(runID string) ([]dynamo.Frame, error) {
	records, err := s.readCSV(runID, trajectoryFile)
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.Frame, 0)
	for _, rec := range records {
		if len(rec) < len(trajectoryHeader) {
			continue
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		node, _ := strconv.Atoi(rec[2])
		dynamic, _ := strconv.ParseBool(rec[4])
		v := parseFloats(rec[5:12])
		b := dynamo.BodySample{
			Node:     node,
			Name:     rec[3],
			Dynamic:  dynamic,
			Mass:     v[0],
			Position: mgl64.Vec3{v[1], v[2], v[3]},
			Velocity: mgl64.Vec3{v[4], v[5], v[6]},
		}

		if n := len(frames); n == 0 || frames[n-1].Step != step {
			t, _ := strconv.ParseFloat(rec[1], 64)
			frames = append(frames, dynamo.Frame{Step: step, Time: t})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, b)
	}
	return frames, nil
}

func parseFloats(fields []string) []float64 {
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i], _ = strconv.ParseFloat(f, 64)
	}
	return out
}

func (s *Store) LoadEvents(runID string) ([]dynamo.Event, error) {
	records, err := s.readCSV(runID, eventsFile)
	if err != nil {
		return nil, err
	}

	events := make([]dynamo.Event, 0, len(records))
	for _, rec := range records {
		if len(rec) < len(eventsHeader) {
			continue
		}
		t, _ := strconv.ParseFloat(rec[0], 64)
		step, _ := strconv.Atoi(rec[1])
		var nodes []string
		if rec[3] != "" {
			nodes = strings.Split(rec[3], ";")
		}
		events = append(events, dynamo.Event{Time: t, Step: step, Kind: dynamo.EventKind(rec[2]), Nodes: nodes, Detail: rec[4]})
	}
	return events, nil
}

// ExportData is the single-document JSON form of a run.
type ExportData struct {
	Run    RunMetadata    `json:"run"`
	Frames []dynamo.Frame `json:"frames"`
	Events []dynamo.Event `json:"events"`
}

// ExportJSON writes a stored run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Frames: frames, Events: events})
}
