package viz

import (
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/scene"
	"github.com/san-kum/scenesim/internal/trigger"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 || c.Grid[0][1] != 0x2880 {
		t.Fatalf("unexpected cells %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("unset left %U", c.Grid[0][0])
	}
	c.Set(-1, 0)
	c.Set(4, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("out of range dots should be ignored")
	}
}

func TestCanvasCircleIsSymmetric(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 6)
	for _, p := range [][2]int{{16, 10}, {4, 10}, {10, 4}, {10, 16}} {
		col, row := p[0]/2, p[1]/4
		if c.Grid[row][col]&rune(pixelMap[p[1]%4][p[0]%2]) == 0 {
			t.Errorf("dot %v not set", p)
		}
	}
	if lines := strings.Count(c.String(), "\n"); lines != 4 {
		t.Errorf("expected 5 rows, got %d newlines", lines+1)
	}
}

func TestSceneWireframe(t *testing.T) {
	cfg := config.DefaultConfig()
	g, h := scene.Build(cfg)

	w := SceneWireframe(g, 30, 5)
	// 13 grid lines each way, 12 button edges, a circle and a point per sphere
	if len(w.Edges) != 26+12+4 {
		t.Errorf("got %d edges", len(w.Edges))
	}

	c := NewCanvas(canvasWidth, canvasHeight)
	dw, dh := c.Dots()
	Render3D(c, w, g.View(h.Camera, float64(dw), float64(dh)))
	if !strings.ContainsFunc(c.String(), func(r rune) bool { return r > blank }) {
		t.Error("nothing was drawn")
	}
}

func TestRender3DSkipsPointsBehindCamera(t *testing.T) {
	c := NewCanvas(10, 10)
	dw, dh := c.Dots()
	view := scene.NewView(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 60, 1, 100, float64(dw), float64(dh))

	w := NewWireframe()
	w.AddEdge(mgl64.Vec3{}, mgl64.Vec3{0, 0, 20})
	Render3D(c, w, view)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > blank }) {
		t.Fatal("edge crossing the camera should be skipped")
	}

	w.Clear()
	w.AddPoint(mgl64.Vec3{})
	Render3D(c, w, view)
	if c.Grid[dh/8][dw/4] == blank {
		t.Error("point at the view center not drawn")
	}
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func TestLiveModelButtonKeyTriggers(t *testing.T) {
	g := NewWithT(t)
	m, err := NewModel(config.DefaultConfig())
	g.Expect(err).NotTo(HaveOccurred())

	m = press(m, "b")
	g.Expect(m.Demo().TriggerState()).To(Equal(trigger.Triggered))
	g.Expect(m.Demo().Field().Strength).To(Equal(config.DefaultTriggerStrength))
	g.Expect(m.lastTap).To(Equal(scene.NameButton + " (triggered)"))

	for range 60 {
		next, cmd := m.Update(TickMsg(time.Now()))
		g.Expect(cmd).NotTo(BeNil())
		m = next.(Model)
	}
	g.Expect(m.Demo().Time()).To(BeNumerically("~", 1.0, 1e-9))
	g.Expect(m.separation).To(HaveLen(60))
	g.Expect(m.separation[59]).To(BeNumerically("<", m.separation[0]))
	g.Expect(m.View()).To(ContainSubstring("TAP TO EXPLODE"))
}

func TestLiveModelMouseTap(t *testing.T) {
	g := NewWithT(t)
	m, err := NewModel(config.DefaultConfig())
	g.Expect(err).NotTo(HaveOccurred())

	p, ok := m.Demo().Input().ScreenPoint(m.Demo().Handles().Button)
	g.Expect(ok).To(BeTrue())
	click := tea.MouseMsg{
		X:      int(p.X)/2 + padLeft,
		Y:      int(p.Y)/4 + padTop,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	next, _ := m.Update(click)
	m = next.(Model)
	g.Expect(m.Demo().TriggerState()).To(Equal(trigger.Triggered))

	// clicks outside the canvas are ignored
	_, _, inside := m.cellToDot(0, 0)
	g.Expect(inside).To(BeFalse())
}

func TestLiveModelPauseAndReset(t *testing.T) {
	g := NewWithT(t)
	m, err := NewModel(config.DefaultConfig())
	g.Expect(err).NotTo(HaveOccurred())

	m = press(m, " ")
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	g.Expect(m.Demo().Time()).To(BeZero())

	m = press(m, ".")
	g.Expect(m.Demo().World().Steps()).To(Equal(1))

	m = press(m, "b")
	m = press(m, "r")
	g.Expect(m.Demo().TriggerState()).To(Equal(trigger.Armed))
	g.Expect(m.Demo().Time()).To(BeZero())
	g.Expect(m.separation).To(BeEmpty())
}

func TestNextThemeWraps(t *testing.T) {
	last := Themes[len(Themes)-1]
	if NextTheme(last).Name != Themes[0].Name {
		t.Errorf("theme cycle did not wrap")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Errorf("unknown theme should fall back to the first")
	}
}
