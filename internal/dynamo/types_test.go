package dynamo

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"
)

func TestStateIsValid(t *testing.T) {
	if !(State{1, 2, 3}).IsValid() {
		t.Error("finite state should be valid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state should be invalid")
	}
}

func TestStateClone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 5
	if s[0] != 1 {
		t.Error("clone shares backing array")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"red", Red, false},
		{"DarkGray", DarkGray, false},
		{"#ffffff", White, false},
		{"#00ff0080", Color{0, 1, 0, 128.0 / 255}, false},
		{"ffffff", Color{}, true},
		{"#fff", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"mauve", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorLerp(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Red.Lerp(White, 0)).To(Equal(Red))
	g.Expect(Red.Lerp(White, 1)).To(Equal(White))
	g.Expect(Red.Lerp(White, 2)).To(Equal(White))
	mid := Black.Lerp(White, 0.5)
	g.Expect(mid.R).To(BeNumerically("~", 0.5, 1e-12))
}

func TestColorYAML(t *testing.T) {
	g := NewWithT(t)

	var doc struct {
		C Color `yaml:"c"`
	}
	g.Expect(yaml.Unmarshal([]byte("c: blue\n"), &doc)).To(Succeed())
	g.Expect(doc.C).To(Equal(Blue))

	out, err := yaml.Marshal(doc)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(out)).To(ContainSubstring("'#0000ff'"))

	g.Expect(yaml.Unmarshal([]byte("c: nope\n"), &doc)).NotTo(Succeed())
}

func TestLoggerDefaultsToSilent(t *testing.T) {
	defer SetLogger(nil)

	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello", "k", 1)
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected log output, got %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
