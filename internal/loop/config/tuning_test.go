package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/ballrush/internal/ball"
)

func TestDefaultTuningValid(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestParseTuningOverrides(t *testing.T) {
	data := []byte(`
round_seconds: 45
spawn_interval: 1s
max_balls: 8
balls:
  - kind: normal
    size: [10, 20]
    points: 2
    probability: 0.75
    color: "#112233"
    glyph: "o"
  - kind: bomb
    size: [30, 40]
    probability: 0.25
`)
	tun, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}

	if tun.RoundSeconds != 45 || tun.SpawnInterval != time.Second || tun.MaxBalls != 8 {
		t.Fatalf("overrides not applied: %+v", tun)
	}
	if tun.BallLifetime != BallLifetime || tun.FieldWidth != FieldWidth {
		t.Fatalf("unset fields lost their defaults: %+v", tun)
	}
	if len(tun.Balls) != 2 {
		t.Fatalf("expected 2 balls, got %d", len(tun.Balls))
	}

	normal := tun.Balls[0]
	if normal.Kind != ball.KindNormal || normal.MinSize != 10 || normal.MaxSize != 20 || normal.Points != 2 {
		t.Fatalf("normal row decoded wrong: %+v", normal)
	}
	if normal.Color != (ball.RGB{R: 0x11, G: 0x22, B: 0x33}) || normal.Glyph != 'o' {
		t.Fatalf("presentation hints decoded wrong: %+v", normal)
	}
}

func TestParseTuningRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"probabilities off", "balls:\n  - kind: normal\n    size: [10, 20]\n    probability: 0.5\n"},
		{"unknown kind", "balls:\n  - kind: rainbow\n    size: [10, 20]\n    probability: 1\n"},
		{"bad colour", "balls:\n  - kind: normal\n    size: [10, 20]\n    probability: 1\n    color: red\n"},
		{"zero round", "round_seconds: -1\n"},
		{"multiplier below one", "max_multiplier: 0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTuning([]byte(tt.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := ParseTuning([]byte("round_seconds: -1\n"))
	if !errors.Is(err, ErrInvalidTuning) {
		t.Fatalf("expected ErrInvalidTuning, got %v", err)
	}
}

func TestLoadTuning(t *testing.T) {
	tun, err := LoadTuning("")
	if err != nil || tun.RoundSeconds != RoundSeconds {
		t.Fatalf("empty path should yield defaults: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("max_balls: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tun, err = LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tun.MaxBalls != 2 {
		t.Fatalf("MaxBalls = %d", tun.MaxBalls)
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
