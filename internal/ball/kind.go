// Package ball defines ball kinds, their static definitions, the weighted
// kind selector and the placement engine.
package ball

import (
	"fmt"
	"strings"
)

// Kind identifies one of the six ball variants.
type Kind int

const (
	KindNormal Kind = iota
	KindSmall
	KindLarge
	KindTimeFreeze
	KindStrike
	KindBomb
)

// kindCount is the number of defined kinds.
const kindCount = 6

var kindNames = [kindCount]string{
	KindNormal:     "normal",
	KindSmall:      "small",
	KindLarge:      "large",
	KindTimeFreeze: "timeFreeze",
	KindStrike:     "strike",
	KindBomb:       "bomb",
}

// String returns the kind name used in events and config files.
func (k Kind) String() string {
	if k < 0 || int(k) >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < kindCount
}

// Special reports whether clicking the kind triggers a power-up instead of
// awarding points.
func (k Kind) Special() bool {
	switch k {
	case KindTimeFreeze, KindStrike, KindBomb:
		return true
	default:
		return false
	}
}

// ParseKind resolves a kind name (case-insensitive).
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ball kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid ball kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
