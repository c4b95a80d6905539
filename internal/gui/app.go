package gui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/demo"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/metrics"
	"github.com/san-kum/scenesim/internal/scene"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

const (
	maxTelemetry     = 300
	maxStepsPerFrame = 5
	fontPath         = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

type App struct {
	Cfg     *config.Config
	Demo    *demo.Demo
	Camera  rl.Camera3D
	Running bool
	InMenu  bool
	Presets []string
	Preset  string
	Sel     int
	Font    rl.Font

	// fixed-step accumulator, seconds
	Accum     float64
	Telemetry []float64
	LastTap   string
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Viewport.Width), int32(cfg.Viewport.Height), "scenesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp creates the window state. With interactive set the app starts in the
// preset menu; otherwise cfg runs immediately.
func NewApp(cfg *config.Config, preset string, interactive bool) (*App, error) {
	a := &App{
		Cfg:       cfg,
		Preset:    preset,
		Presets:   config.ListPresets(),
		InMenu:    interactive,
		Font:      loadFont(),
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	if !interactive {
		if err := a.load(cfg); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Run opens a window on cfg and blocks until it is closed.
func Run(cfg *config.Config, preset string) error {
	initWindow(cfg)
	defer rl.CloseWindow()
	a, err := NewApp(cfg, preset, false)
	if err != nil {
		return err
	}
	a.RunLoop()
	return nil
}

// RunInteractive opens a window on the preset menu.
func RunInteractive() error {
	cfg := config.DefaultConfig()
	initWindow(cfg)
	defer rl.CloseWindow()
	a, err := NewApp(cfg, "default", true)
	if err != nil {
		return err
	}
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) load(cfg *config.Config) error {
	d, err := demo.New(cfg)
	if err != nil {
		return err
	}
	a.Cfg, a.Demo = cfg, d
	a.Accum, a.LastTap = 0, ""
	a.Telemetry = a.Telemetry[:0]
	a.Running, a.InMenu = true, false
	a.syncCamera()
	return nil
}

// syncCamera points the raylib camera through the scene camera's lens.
func (a *App) syncCamera() {
	v := a.Demo.View(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	if v == nil {
		return
	}
	a.Camera = rl.NewCamera3D(vec(v.Eye), vec(v.Target), rl.NewVector3(0, 1, 0), float32(v.FOV), rl.CameraPerspective)
}

// Update handles one frame of input and simulation. It returns false when the
// app should quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}
	if a.InMenu {
		a.updateMenu()
		return true
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.load(a.Cfg); err != nil {
			dynamo.Logger().Error("reset failed", "err", err)
		}
	}

	a.Demo.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		p := rl.GetMousePosition()
		a.noteTap(a.Demo.Tap(float64(p.X), float64(p.Y)))
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.noteTap(a.Demo.TapNode(a.Demo.Handles().Button))
	}

	if a.Running {
		a.advance(float64(rl.GetFrameTime()))
	}
	a.syncCamera()
	return true
}

// advance runs as many fixed steps as the frame time covers, dropping time
// beyond maxStepsPerFrame.
func (a *App) advance(frame float64) {
	dt := a.Cfg.Physics.Dt
	a.Accum += frame
	for n := 0; a.Accum >= dt; n++ {
		if n == maxStepsPerFrame {
			a.Accum = 0
			break
		}
		if err := a.Demo.Step(dt); err != nil {
			dynamo.Logger().Error("step failed", "err", err)
			a.Running = false
			return
		}
		a.Accum -= dt
		if d, ok := metrics.Distance(a.Demo.Frame(), scene.NameSphere1, scene.NameSphere2); ok {
			a.Telemetry = append(a.Telemetry, d)
			if len(a.Telemetry) > maxTelemetry {
				a.Telemetry = a.Telemetry[1:]
			}
		}
	}
}

func (a *App) noteTap(r demo.TapResult) {
	hit, ok := r.Nearest()
	switch {
	case r.Triggered:
		a.LastTap = hit.Name + " (triggered)"
	case ok:
		a.LastTap = hit.Name
	default:
		a.LastTap = "nothing"
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Sel = (a.Sel + 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Sel = (a.Sel + len(a.Presets) - 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		name := a.Presets[a.Sel]
		cfg, err := config.GetPreset(name)
		if err == nil {
			err = a.load(cfg)
		}
		if err != nil {
			dynamo.Logger().Error("load preset failed", "preset", name, "err", err)
			return
		}
		a.Preset = name
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawScene()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	a.drawText("scenesim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Preset), 160, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Demo.Collided():
		status = "COLLIDED"
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-130, 30, 16, col)

	y := 80
	line := func(format string, args ...any) {
		a.drawText(fmt.Sprintf(format, args...), 30, y, 14, ColText)
		y += 20
	}
	line("t       %.2fs", a.Demo.Time())
	line("trigger %s", a.Demo.TriggerState())
	if f := a.Demo.Field(); f != nil {
		line("field   %g", f.Strength)
	}
	line("nodes   %d", a.Demo.Graph().Count())
	if a.LastTap != "" {
		line("tap     %s", a.LastTap)
	}

	events := a.Demo.Events()
	if len(events) > 6 {
		events = events[len(events)-6:]
	}
	y += 10
	for _, ev := range events {
		a.drawText(fmt.Sprintf("%6.2fs %-8s %v %s", ev.Time, ev.Kind, ev.Nodes, ev.Detail), 30, y, 14, ColAccent)
		y += 18
	}

	a.DrawTelemetry(30, h-120, 400, 60)
	a.drawText("[CLICK/B] TAP  [SPACE] PAUSE  [R] RESET  [ESC] MENU  [Q] QUIT", w-600, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the sphere separation history.
func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("d: %.2f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("scenesim", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.Sel {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	h := int(rl.GetScreenHeight())
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, h-40, 14, ColTextDim)
}
