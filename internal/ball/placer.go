package ball

import (
	"math"

	"github.com/tomz197/ballrush/internal/physics"
)

// Placement defaults.
const (
	DefaultPadding = 10.0 // Margin from field edges
	DefaultGap     = 20.0 // Extra clearance between neighbouring balls
)

// Placer picks a size and non-overlapping position for new balls.
type Placer struct {
	src     Source
	Padding float64
	Gap     float64
}

// NewPlacer creates a placer with the default padding and gap.
func NewPlacer(src Source) *Placer {
	return &Placer{
		src:     src,
		Padding: DefaultPadding,
		Gap:     DefaultGap,
	}
}

// Place draws a size in [MinSize, MaxSize) and a position inside
// [Padding, dim-size-Padding] on each axis. It reports false when the field
// cannot fit the ball or the spot is too close to any live ball; callers
// skip the spawn rather than retry.
func (p *Placer) Place(def Definition, width, height float64, live []Ball) (Ball, bool) {
	size := math.Floor(p.src.Float64()*(def.MaxSize-def.MinSize)) + def.MinSize

	maxX := width - size - p.Padding
	maxY := height - size - p.Padding
	if maxX < p.Padding || maxY < p.Padding {
		return Ball{}, false
	}

	x := math.Max(p.Padding, p.src.Float64()*maxX)
	y := math.Max(p.Padding, p.src.Float64()*maxY)

	for _, other := range live {
		if physics.Overlaps(x, y, size, other.X, other.Y, other.Size, p.Gap) {
			return Ball{}, false
		}
	}

	return Ball{
		Kind:   def.Kind,
		Points: def.Points,
		Size:   size,
		X:      x,
		Y:      y,
	}, true
}
