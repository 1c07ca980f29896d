package ball

import (
	"math"
	"math/rand"
	"testing"
)

// seqSource replays fixed draws, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestDefaultDefinitionsValid(t *testing.T) {
	defs := DefaultDefinitions()
	if err := defs.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	if len(defs) != 6 {
		t.Fatalf("expected 6 kinds, got %d", len(defs))
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		mod  func(Definitions) Definitions
	}{
		{"empty", func(Definitions) Definitions { return nil }},
		{"sum below one", func(d Definitions) Definitions { d[0].Probability = 0.4; return d }},
		{"duplicate kind", func(d Definitions) Definitions { d[1].Kind = KindNormal; return d }},
		{"empty size range", func(d Definitions) Definitions { d[2].MaxSize = d[2].MinSize; return d }},
		{"negative points", func(d Definitions) Definitions { d[0].Points = -1; return d }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mod(DefaultDefinitions()).Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestPickBoundaries(t *testing.T) {
	defs := DefaultDefinitions()
	tests := []struct {
		r    float64
		want Kind
	}{
		{0, KindNormal},
		{0.5, KindNormal},
		{0.5000001, KindSmall},
		{0.6, KindSmall},
		{0.7, KindLarge},
		{0.85, KindTimeFreeze},
		{0.93, KindStrike},
		{0.99, KindBomb},
	}
	for _, tt := range tests {
		if got := defs.Pick(tt.r).Kind; got != tt.want {
			t.Errorf("Pick(%v) = %s, want %s", tt.r, got, tt.want)
		}
	}
}

func TestPickFallsBackToLast(t *testing.T) {
	defs := DefaultDefinitions()
	// Shave mass so the cumulative sum tops out below 1.
	defs[0].Probability -= 1e-6

	if got := defs.Pick(0.9999999).Kind; got != KindBomb {
		t.Fatalf("expected fallback to last kind, got %s", got)
	}
	if got := defs.Pick(1.5).Kind; got != KindBomb {
		t.Fatalf("expected fallback for out-of-range draw, got %s", got)
	}
}

func TestSelectorFrequenciesConverge(t *testing.T) {
	defs := DefaultDefinitions()
	sel := NewSelector(defs, rand.New(rand.NewSource(42)))

	const draws = 200000
	counts := make(map[Kind]int)
	for i := 0; i < draws; i++ {
		def := sel.Next()
		if !def.Kind.Valid() {
			t.Fatalf("draw returned invalid kind %d", def.Kind)
		}
		counts[def.Kind]++
	}

	for _, def := range defs {
		got := float64(counts[def.Kind]) / draws
		if math.Abs(got-def.Probability) > 0.01 {
			t.Errorf("%s: frequency %.4f, want %.2f±0.01", def.Kind, got, def.Probability)
		}
	}
}

func TestPlaceStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPlacer(rng)
	const w, h = 800.0, 480.0

	for _, def := range DefaultDefinitions() {
		for i := 0; i < 2000; i++ {
			b, ok := p.Place(def, w, h, nil)
			if !ok {
				t.Fatalf("%s: placement rejected on an empty field", def.Kind)
			}
			if b.Size < def.MinSize || b.Size >= def.MaxSize {
				t.Fatalf("%s: size %v outside [%v,%v)", def.Kind, b.Size, def.MinSize, def.MaxSize)
			}
			if b.Size != math.Floor(b.Size) {
				t.Fatalf("%s: size %v is not a whole unit", def.Kind, b.Size)
			}
			if b.X < p.Padding || b.X > w-b.Size-p.Padding {
				t.Fatalf("%s: x %v out of bounds for size %v", def.Kind, b.X, b.Size)
			}
			if b.Y < p.Padding || b.Y > h-b.Size-p.Padding {
				t.Fatalf("%s: y %v out of bounds for size %v", def.Kind, b.Y, b.Size)
			}
		}
	}
}

func TestPlaceClampsToPadding(t *testing.T) {
	// size draw 0 -> MinSize; position draws 0 -> clamped to padding
	p := NewPlacer(&seqSource{vals: []float64{0, 0, 0}})
	def, _ := DefaultDefinitions().Lookup(KindNormal)

	b, ok := p.Place(def, 800, 480, nil)
	if !ok {
		t.Fatalf("expected placement")
	}
	if b.Size != 40 || b.X != DefaultPadding || b.Y != DefaultPadding {
		t.Fatalf("got size=%v x=%v y=%v", b.Size, b.X, b.Y)
	}
	if b.Kind != KindNormal || b.Points != 3 {
		t.Fatalf("definition not copied: %+v", b)
	}
}

func TestPlaceRejectsOverlap(t *testing.T) {
	def, _ := DefaultDefinitions().Lookup(KindNormal)
	// size = 40, x = y = 0.5*(800-40-10) = 375 / 0.5*(480-40-10) = 215
	draws := []float64{0, 0.5, 0.5}

	existing := Ball{ID: 1, Size: 40, X: 375, Y: 215}
	if _, ok := NewPlacer(&seqSource{vals: draws}).Place(def, 800, 480, []Ball{existing}); ok {
		t.Fatalf("expected overlap rejection for coincident ball")
	}

	// Exactly at the threshold (40+40)/2+20 = 60 on x: not overlapping.
	edge := Ball{ID: 2, Size: 40, X: 375 + 60, Y: 215}
	if _, ok := NewPlacer(&seqSource{vals: draws}).Place(def, 800, 480, []Ball{edge}); !ok {
		t.Fatalf("ball at exact threshold must be accepted")
	}
}

func TestPlaceRejectsTinyField(t *testing.T) {
	def, _ := DefaultDefinitions().Lookup(KindLarge)
	if _, ok := NewPlacer(&seqSource{vals: []float64{0.5}}).Place(def, 50, 50, nil); ok {
		t.Fatalf("expected rejection when the field cannot fit the ball")
	}
}

func TestKindNames(t *testing.T) {
	for _, def := range DefaultDefinitions() {
		parsed, err := ParseKind(def.Kind.String())
		if err != nil || parsed != def.Kind {
			t.Fatalf("round trip of %s failed: %v", def.Kind, err)
		}
	}
	if _, err := ParseKind("rainbow"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if KindNormal.Special() || !KindBomb.Special() {
		t.Fatalf("Special() misclassifies kinds")
	}
}
