package ball

// Source yields uniform draws in [0,1). *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Selector draws ball kinds from a weighted table.
type Selector struct {
	defs Definitions
	src  Source
}

// NewSelector creates a selector over defs. defs must not be empty.
func NewSelector(defs Definitions, src Source) *Selector {
	return &Selector{defs: defs, src: src}
}

// Next draws one definition.
func (s *Selector) Next() Definition {
	return s.defs.Pick(s.src.Float64())
}
