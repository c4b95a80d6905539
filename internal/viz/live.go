package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/demo"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/metrics"
	"github.com/san-kum/scenesim/internal/scene"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	eventLines      = 5
	gridExtent      = 30.0
	gridSpacing     = 5.0
)

// canvas padding from Styles.Canvas, in cells
const padTop, padLeft = 1, 2

type TickMsg time.Time

// Model runs the demo in the terminal. The canvas doubles as the demo's
// viewport: one braille dot is one pixel, so a mouse click on a cell taps the
// dot at the cell's center.
type Model struct {
	cfg    *config.Config
	demo   *demo.Demo
	err    error
	canvas *Canvas
	theme  Theme
	styles Styles

	running  bool
	showHelp bool
	lastTap  string
	ticks    int

	separation []float64
	speed      []float64
}

// NewModel builds the demo from cfg and sizes its viewport to the canvas.
func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:     cfg.Clone(),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		theme:   Themes[0],
		styles:  NewStyles(Themes[0]),
		running: true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Demo exposes the running demo.
func (m Model) Demo() *demo.Demo { return m.demo }

func (m Model) Init() tea.Cmd { return tick(m.cfg.Physics.Dt) }

func tick(dt float64) tea.Cmd {
	return tea.Tick(time.Duration(dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "b":
			m.tapResult(m.demo.TapNode(m.demo.Handles().Button))
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if !m.showHelp && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if x, y, ok := m.cellToDot(msg.X, msg.Y); ok {
				m.tapResult(m.demo.Tap(x, y))
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick(m.cfg.Physics.Dt)
	}
	return m, nil
}

// Err is the error that stopped the model, if any.
func (m Model) Err() error { return m.err }

func (m *Model) reset() error {
	d, err := demo.New(m.cfg)
	if err != nil {
		return err
	}
	w, h := m.canvas.Dots()
	d.Resize(w, h)
	m.demo = d
	m.separation = m.separation[:0]
	m.speed = m.speed[:0]
	m.lastTap = ""
	m.ticks = 0
	return nil
}

// cellToDot maps a terminal cell to the dot at the center of the canvas cell
// under it.
func (m *Model) cellToDot(col, row int) (float64, float64, bool) {
	cx, cy := col-padLeft, row-padTop
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return 0, 0, false
	}
	return float64(cx*2) + 1, float64(cy*4) + 2, true
}

func (m *Model) tapResult(r demo.TapResult) {
	hit, ok := r.Nearest()
	switch {
	case r.Triggered:
		m.lastTap = hit.Name + " (triggered)"
	case ok:
		m.lastTap = hit.Name
	default:
		m.lastTap = "nothing"
	}
}

func (m *Model) step() {
	if m.err != nil {
		return
	}
	if err := m.demo.Step(m.cfg.Physics.Dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.ticks++

	f := m.demo.Frame()
	if d, ok := metrics.Distance(f, scene.NameSphere1, scene.NameSphere2); ok {
		m.separation = appendCapped(m.separation, d)
	}
	if b, ok := f.Body(scene.NameSphere2); ok {
		m.speed = appendCapped(m.speed, b.Velocity.Len())
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	Render3D(m.canvas, SceneWireframe(m.demo.Graph(), gridExtent, gridSpacing), m.demo.View(w, h))
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.Canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.Header.Render("TAP TO EXPLODE") + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.separation) > 1 {
		chart := asciigraph.Plot(m.separation, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("sphere separation"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}
	s.WriteString(st.Label.Render("Speed") + st.Sparkline(m.speed, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.demo.Time()))
	row("Nodes", fmt.Sprintf("%d", m.demo.Graph().Count()))
	row("Trigger", m.demo.TriggerState().String())
	if f := m.demo.Field(); f != nil {
		row("Field", fmt.Sprintf("%g", f.Strength))
	}
	if len(m.separation) > 0 {
		row("Distance", fmt.Sprintf("%.2f", m.separation[len(m.separation)-1]))
	}
	if m.lastTap != "" {
		row("Last tap", m.lastTap)
	}
	for _, id := range m.demo.EffectNodes() {
		if n := m.demo.Graph().Node(id); n != nil && n.Particles != nil {
			row("Effect", n.Particles.Name())
		}
	}

	s.WriteString("\n" + st.Separator(40) + "\n")
	s.WriteString(m.eventLog())
	s.WriteString(st.Help.Render("click/B:Tap  SP:Pause  .:Step\nR:Reset  T:Theme  ?:Help  Q:Quit"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + body
	}
	return body
}

func (m Model) status() string {
	st := m.styles
	switch {
	case m.err != nil:
		return st.Collided.Render("ERROR " + m.err.Error())
	case m.demo.Collided():
		return st.Collided.Render("COLLIDED")
	case !m.running:
		return st.Paused.Render("PAUSED")
	}
	return st.Running.Render(AnimatedSpinner(m.ticks/4) + " RUNNING")
}

func (m Model) eventLog() string {
	events := m.demo.Events()
	if len(events) > eventLines {
		events = events[len(events)-eventLines:]
	}
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(m.styles.Event.Render(formatEvent(ev)) + "\n")
	}
	return b.String()
}

func formatEvent(ev dynamo.Event) string {
	line := fmt.Sprintf("%6.2fs %-8s %s", ev.Time, ev.Kind, strings.Join(ev.Nodes, ","))
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	if len(line) > 42 {
		line = line[:41] + "…"
	}
	return line
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Click    - Tap the scene            ║
║  B        - Tap the button           ║
║  Space    - Pause/Resume             ║
║  .        - Single step while paused ║
║  R        - Reset the scene          ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
