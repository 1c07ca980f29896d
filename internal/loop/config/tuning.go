package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/ballrush/internal/ball"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is returned when a tuning file decodes but describes an
// unplayable game.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the per-round rules. Keys absent from a YAML file keep their
// defaults.
type Tuning struct {
	FieldWidth  float64 `yaml:"field_width"`
	FieldHeight float64 `yaml:"field_height"`
	Padding     float64 `yaml:"padding"`
	Gap         float64 `yaml:"gap"`

	RoundSeconds int           `yaml:"round_seconds"`
	ClockTick    time.Duration `yaml:"clock_tick"`

	MaxBalls      int           `yaml:"max_balls"`
	InitialBalls  int           `yaml:"initial_balls"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	RefillDelay   time.Duration `yaml:"refill_delay"`
	BallLifetime  time.Duration `yaml:"ball_lifetime"`

	ComboWindow   time.Duration `yaml:"combo_window"`
	ComboStep     float64       `yaml:"combo_step"`
	MaxMultiplier float64       `yaml:"max_multiplier"`

	TimeFreezeBonus    int           `yaml:"time_freeze_bonus"`
	BombPenalty        int           `yaml:"bomb_penalty"`
	StrikeDelay        time.Duration `yaml:"strike_delay"`
	TimeFreezeDuration time.Duration `yaml:"time_freeze_duration"`
	StrikeDuration     time.Duration `yaml:"strike_duration"`
	BombDuration       time.Duration `yaml:"bomb_duration"`

	Balls ball.Definitions `yaml:"-"`
}

// ballSpec is the YAML shape of one ball table row.
type ballSpec struct {
	Kind        ball.Kind  `yaml:"kind"`
	Size        [2]float64 `yaml:"size"`
	Points      int        `yaml:"points"`
	Probability float64    `yaml:"probability"`
	Color       string     `yaml:"color"`
	Glyph       string     `yaml:"glyph"`
}

type tuningFile struct {
	Tuning `yaml:",inline"`
	Balls  []ballSpec `yaml:"balls"`
}

// DefaultTuning returns the stock rules.
func DefaultTuning() Tuning {
	return Tuning{
		FieldWidth:  FieldWidth,
		FieldHeight: FieldHeight,
		Padding:     Padding,
		Gap:         Gap,

		RoundSeconds: RoundSeconds,
		ClockTick:    ClockTick,

		MaxBalls:      MaxBalls,
		InitialBalls:  InitialBalls,
		SpawnInterval: SpawnInterval,
		RefillDelay:   RefillDelay,
		BallLifetime:  BallLifetime,

		ComboWindow:   ComboWindow,
		ComboStep:     ComboStep,
		MaxMultiplier: MaxMultiplier,

		TimeFreezeBonus:    TimeFreezeBonus,
		BombPenalty:        BombPenalty,
		StrikeDelay:        StrikeDelay,
		TimeFreezeDuration: TimeFreezeDuration,
		StrikeDuration:     StrikeDuration,
		BombDuration:       BombDuration,

		Balls: ball.DefaultDefinitions(),
	}
}

// LoadTuning reads a YAML tuning file on top of DefaultTuning.
// An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML tuning data on top of DefaultTuning and validates
// the result.
func ParseTuning(data []byte) (Tuning, error) {
	file := tuningFile{Tuning: DefaultTuning()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}

	t := file.Tuning
	if len(file.Balls) > 0 {
		defs := make(ball.Definitions, 0, len(file.Balls))
		for _, spec := range file.Balls {
			def, err := spec.definition()
			if err != nil {
				return Tuning{}, fmt.Errorf("%w: %v", ErrInvalidTuning, err)
			}
			defs = append(defs, def)
		}
		t.Balls = defs
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func (s ballSpec) definition() (ball.Definition, error) {
	def := ball.Definition{
		Kind:        s.Kind,
		MinSize:     s.Size[0],
		MaxSize:     s.Size[1],
		Points:      s.Points,
		Probability: s.Probability,
	}
	if s.Color != "" {
		c, err := parseHexColor(s.Color)
		if err != nil {
			return ball.Definition{}, fmt.Errorf("%s: %w", s.Kind, err)
		}
		def.Color = c
	}
	if s.Glyph != "" {
		r, _ := utf8.DecodeRuneInString(s.Glyph)
		def.Glyph = r
	}
	return def, nil
}

func parseHexColor(s string) (ball.RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return ball.RGB{}, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ball.RGB{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return ball.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Validate rejects rule sets the round engine cannot run.
func (t Tuning) Validate() error {
	switch {
	case t.FieldWidth <= 0 || t.FieldHeight <= 0:
		return fmt.Errorf("%w: field %gx%g", ErrInvalidTuning, t.FieldWidth, t.FieldHeight)
	case t.RoundSeconds <= 0:
		return fmt.Errorf("%w: round_seconds must be positive", ErrInvalidTuning)
	case t.ClockTick <= 0 || t.SpawnInterval <= 0 || t.BallLifetime <= 0:
		return fmt.Errorf("%w: clock_tick, spawn_interval and ball_lifetime must be positive", ErrInvalidTuning)
	case t.MaxBalls < 0 || t.InitialBalls < 0:
		return fmt.Errorf("%w: ball counts must not be negative", ErrInvalidTuning)
	case t.MaxMultiplier < 1:
		return fmt.Errorf("%w: max_multiplier below 1", ErrInvalidTuning)
	}
	if err := t.Balls.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTuning, err)
	}
	return nil
}
