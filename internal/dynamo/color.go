package dynamo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Black    = Color{0, 0, 0, 1}
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	DarkGray = Color{1.0 / 3, 1.0 / 3, 1.0 / 3, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	Orange   = Color{1, 0.5, 0, 1}
	Yellow   = Color{1, 1, 0, 1}
)

var namedColors = map[string]Color{
	"black":    Black,
	"white":    White,
	"red":      Red,
	"green":    Green,
	"blue":     Blue,
	"darkgray": DarkGray,
	"gray":     Gray,
	"orange":   Orange,
	"yellow":   Yellow,
}

// Lerp interpolates from c to o; t is clamped to [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	t = math.Max(0, math.Min(1, t))
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	r, g, b, a := c.RGBA8()
	if a == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

func (c Color) String() string { return c.Hex() }

// ParseColor accepts a color name ("red", "darkgray") or #rrggbb / #rrggbbaa.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 || len(hex) == len(s) {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		n = n<<8 | 0xff
	}
	return Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: color must be a string: %w", value.Line, err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}
