package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 4, "#fff") != "" {
		t.Error("nil canvas should produce nothing")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4, "#00ff00")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#00ff00"`) {
		t.Error("fill color missing")
	}
}

func frame(step int, x1, x2 float64) dynamo.Frame {
	return dynamo.Frame{
		Step: step,
		Time: float64(step) / 60,
		Bodies: []dynamo.BodySample{
			{Name: "sphere1", Position: mgl64.Vec3{x1, 1.5, 0}},
			{Name: "sphere2", Dynamic: true, Position: mgl64.Vec3{x2, 1.5, 0}},
		},
	}
}

func TestTrajectoriesToSVG(t *testing.T) {
	frames := []dynamo.Frame{frame(0, -15, 15), frame(1, -15, 10), frame(2, -15, -12)}
	events := []dynamo.Event{
		{Step: 2, Kind: dynamo.EventContact, Nodes: []string{"sphere1", "sphere2"}},
		{Step: 2, Kind: dynamo.EventRemove, Nodes: []string{"sphere1"}},
	}

	var buf bytes.Buffer
	if err := TrajectoriesToSVG(&buf, frames, events, 400, 300); err != nil {
		t.Fatal(err)
	}
	svg := buf.String()
	for _, want := range []string{`id="sphere1"`, `id="sphere2"`, `stroke="#ff4444"`, "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
	if n := strings.Count(svg, " L"); n != 4 {
		t.Errorf("expected 2 segments per body, got %d", n)
	}
}

func TestTrajectoriesToSVGNeedsBodies(t *testing.T) {
	err := TrajectoriesToSVG(&bytes.Buffer{}, []dynamo.Frame{{Step: 0}}, nil, 10, 10)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
