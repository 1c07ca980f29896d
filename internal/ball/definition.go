package ball

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// probabilityTolerance is the slack allowed when checking that a table's
// probabilities sum to one.
const probabilityTolerance = 1e-9

// Definition is the static description of a ball kind.
type Definition struct {
	Kind        Kind
	MinSize     float64 // inclusive
	MaxSize     float64 // exclusive
	Points      int
	Probability float64
	Color       RGB  // Presentation hint
	Glyph       rune // Presentation hint, 0 for none
}

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Definitions is an ordered ball table. Order matters for the cumulative draw.
type Definitions []Definition

// DefaultDefinitions returns the stock ball table.
func DefaultDefinitions() Definitions {
	return Definitions{
		{Kind: KindNormal, MinSize: 40, MaxSize: 70, Points: 3, Probability: 0.5, Color: RGB{0xFF, 0x6B, 0x6B}, Glyph: '●'},
		{Kind: KindSmall, MinSize: 20, MaxSize: 35, Points: 5, Probability: 0.15, Color: RGB{0x4E, 0xCD, 0xC4}, Glyph: '⚡'},
		{Kind: KindLarge, MinSize: 70, MaxSize: 100, Points: 1, Probability: 0.15, Color: RGB{0x45, 0xB7, 0xD1}},
		{Kind: KindTimeFreeze, MinSize: 50, MaxSize: 60, Points: 0, Probability: 0.1, Color: RGB{0x9B, 0x59, 0xB6}, Glyph: '⏱'},
		{Kind: KindStrike, MinSize: 50, MaxSize: 60, Points: 0, Probability: 0.05, Color: RGB{0xFF, 0xA5, 0x00}, Glyph: '↓'},
		{Kind: KindBomb, MinSize: 50, MaxSize: 60, Points: 0, Probability: 0.05, Color: RGB{0xFF, 0x00, 0x00}, Glyph: '✸'},
	}
}

// Validate checks the table invariants: at least one entry, every kind known
// and listed once, sane size ranges, non-negative points and probabilities
// summing to one.
func (d Definitions) Validate() error {
	if len(d) == 0 {
		return errors.New("ball table is empty")
	}

	seen := make(map[Kind]bool, len(d))
	total := 0.0
	for i, def := range d {
		if !def.Kind.Valid() {
			return fmt.Errorf("entry %d: invalid kind %d", i, int(def.Kind))
		}
		if seen[def.Kind] {
			return fmt.Errorf("entry %d: duplicate kind %s", i, def.Kind)
		}
		seen[def.Kind] = true

		if def.MinSize <= 0 || def.MaxSize <= def.MinSize {
			return fmt.Errorf("%s: size range [%g,%g) is empty", def.Kind, def.MinSize, def.MaxSize)
		}
		if def.Points < 0 {
			return fmt.Errorf("%s: negative points %d", def.Kind, def.Points)
		}
		if def.Probability < 0 {
			return fmt.Errorf("%s: negative probability %g", def.Kind, def.Probability)
		}
		total += def.Probability
	}

	if math.Abs(total-1) > probabilityTolerance {
		return fmt.Errorf("probabilities sum to %g, want 1", total)
	}
	return nil
}

// Lookup returns the definition for kind.
func (d Definitions) Lookup(kind Kind) (Definition, bool) {
	for _, def := range d {
		if def.Kind == kind {
			return def, true
		}
	}
	return Definition{}, false
}

// Pick performs the cumulative-probability scan for a draw r in [0,1).
// It returns the first definition whose running sum reaches r and falls
// back to the last entry when floating-point slack leaves r uncovered.
func (d Definitions) Pick(r float64) Definition {
	cumulative := 0.0
	for _, def := range d {
		cumulative += def.Probability
		if r <= cumulative {
			return def
		}
	}
	return d[len(d)-1]
}

// Ball is a live target. Values are never mutated after creation; X and Y
// are the top-left corner of the ball's bounding square.
type Ball struct {
	ID        uint64
	Kind      Kind
	Points    int
	Size      float64
	X         float64
	Y         float64
	SpawnTime time.Duration // Round-relative virtual time
}

// Center returns the centre of the ball.
func (b Ball) Center() (float64, float64) {
	r := b.Size / 2
	return b.X + r, b.Y + r
}

// Radius returns half the ball size.
func (b Ball) Radius() float64 {
	return b.Size / 2
}
