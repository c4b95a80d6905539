package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scenesim/internal/config"
)

var presetInfo = map[string]string{
	"default": "the stock scene, strength 750",
	"strong":  "fast infall, strength 3000",
	"wide":    "spheres 60 units apart",
	"slowmo":  "rk4 at 240Hz, slow press",
	"inverse": "1/d falloff",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable configuration value.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"strength", func(c *config.Config) float64 { return c.Field.TriggerStrength }, func(c *config.Config, v float64) { c.Field.TriggerStrength = v }},
	{"falloff", func(c *config.Config) float64 { return c.Field.Falloff }, func(c *config.Config, v float64) { c.Field.Falloff = v }},
	{"radius", func(c *config.Config) float64 { return c.Spheres.Radius }, func(c *config.Config, v float64) { c.Spheres.Radius = v }},
	{"sphere2_x", func(c *config.Config) float64 { return c.Spheres.Second.X() }, func(c *config.Config, v float64) { c.Spheres.Second[0] = v }},
	{"press", func(c *config.Config) float64 { return c.Button.PressDuration }, func(c *config.Config, v float64) { c.Button.PressDuration = v }},
	{"dt", func(c *config.Config) float64 { return c.Physics.Dt }, func(c *config.Config, v float64) { c.Physics.Dt = v }},
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

type app struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	live          Model
}

// NewInteractiveApp starts at the preset menu.
func NewInteractiveApp() *app {
	return &app{state: stateMenu, presets: config.ListPresets()}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		if m.state == stateMenu {
			return m.menuKey(k)
		}
		return m.configKey(k)
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg, err := config.GetPreset(m.presets[m.cursor])
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.cfg, m.state, m.paramCursor, m.err = cfg, stateConfig, 0, ""
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
				m.editBuf += s
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)*0.9)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)*1.1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m app) start() (app, tea.Cmd) {
	live, err := NewModel(m.cfg)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, ""
	return m, live.Init()
}

func (m app) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return m.viewMenu()
}

func header(title, sub string) string {
	return "\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("SCENESIM", "tap the button, watch them meet"))
	for i, name := range m.presets {
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuValue.Render(presetInfo[name]))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuSub.Render(presetInfo[name]))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + menuValue.Render(m.err) + "\n")
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	name := m.presets[m.cursor]
	b.WriteString(header(strings.ToUpper(name), presetInfo[name]))
	for i, p := range params {
		val := fmt.Sprintf("%10.4g", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", p.name)), menuValue.Bold(true).Render(val))
		} else {
			fmt.Fprintf(&b, "      %s %s\n", menuIdle.Render(fmt.Sprintf("%-10s", p.name)), menuSub.Render(val))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + menuValue.Render(m.err) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive runs the preset menu with mouse reporting enabled for taps.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// RunLive runs the demo straight away.
func RunLive(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}
