package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Frames: []dynamo.Frame{
			{Step: 0, Time: 0, Bodies: []dynamo.BodySample{
				{Node: 4, Name: "sphere1", Mass: 1, Position: mgl64.Vec3{-15, 1.5, 0}},
				{Node: 5, Name: "sphere2", Dynamic: true, Mass: 1, Position: mgl64.Vec3{15, 1.5, 0}},
			}},
			{Step: 1, Time: 0.5, Bodies: []dynamo.BodySample{
				{Node: 5, Name: "sphere2", Dynamic: true, Mass: 1, Position: mgl64.Vec3{14, 1.5, 0}, Velocity: mgl64.Vec3{-2, 0, 0}},
			}},
		},
		Events: []dynamo.Event{
			{Time: 0.5, Step: 30, Kind: dynamo.EventTrigger, Nodes: []string{"button"}, Detail: "strength=750"},
			{Time: 7, Step: 420, Kind: dynamo.EventEffectMissing, Detail: "no, really"},
		},
		Metrics:    map[string]float64{"peak_speed": 21.5},
		StepsTaken: 900,
		Triggered:  true,
		Collided:   true,
		CollidedAt: 7,
		FinalNodes: 4,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info := RunInfo{Preset: "default", Integrator: "verlet", Effect: "Explosion", Seed: 42, Dt: 1.0 / 60, Duration: 15}
	runID, err := st.Save(info, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "default" || meta.Seed != 42 || meta.Integrator != "verlet" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if !meta.Collided || meta.CollidedAt != 7 || meta.FinalNodes != 4 || meta.Steps != 900 {
		t.Errorf("outcome not stored: %+v", meta)
	}
	if meta.Metrics["peak_speed"] != 21.5 {
		t.Errorf("expected peak speed 21.5, got %f", meta.Metrics["peak_speed"])
	}

	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[0].Bodies) != 2 || len(frames[1].Bodies) != 1 {
		t.Errorf("bodies per frame: %d, %d", len(frames[0].Bodies), len(frames[1].Bodies))
	}
	b, ok := frames[1].Body("sphere2")
	if !ok || !b.Dynamic || b.Velocity.X() != -2 || b.Position.X() != 14 || b.Node != 5 {
		t.Errorf("sphere2 sample not restored: %+v", b)
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		t.Fatalf("load events failed: %v", err)
	}
	if len(events) != 2 || events[0].Kind != dynamo.EventTrigger || events[0].Nodes[0] != "button" {
		t.Errorf("unexpected events %+v", events)
	}
	if events[1].Nodes != nil || events[1].Detail != "no, really" {
		t.Errorf("quoted detail not restored: %+v", events[1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for _, preset := range []string{"default", "strong"} {
		if _, err := st.Save(RunInfo{Preset: preset}, &dynamo.Result{}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "runs", "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Preset != "default" {
		t.Errorf("runs should be oldest first, got %s", runs[0].Preset)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{}, &dynamo.Result{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile, eventsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Preset: "wide"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if got.Run.Preset != "wide" || len(got.Frames) != 2 || len(got.Events) != 2 {
		t.Errorf("unexpected export %+v", got)
	}

	if err := st.ExportJSON(&buf, "missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}
