// Package store persists per-player records: high score, best combo and the
// preferred theme. Scores and combos only ever grow.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrNotFound is returned by Load for a player with no record yet.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidPlayer is returned for an empty player name.
	ErrInvalidPlayer = errors.New("invalid player")
)

// Theme is a player's color scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Record is the persistent state of one player.
type Record struct {
	Player    string `json:"player"`
	HighScore int    `json:"highScore"`
	BestCombo int    `json:"bestCombo"`
	Theme     Theme  `json:"theme"`
}

// NewRecord returns the record a player starts with.
func NewRecord(player string) Record {
	return Record{Player: player, Theme: ThemeDark}
}

// Records is the storage contract. Submit calls keep the maximum of the
// stored and the submitted value.
type Records interface {
	Load(ctx context.Context, player string) (Record, error)
	SubmitCombo(ctx context.Context, player string, combo int) error
	// SubmitRound applies both maxima at once.
	SubmitRound(ctx context.Context, player string, score, combo int) error
	SetTheme(ctx context.Context, player string, theme Theme) error
	// Top returns up to n records ordered by high score, best first.
	Top(ctx context.Context, n int) ([]Record, error)
}

// LoadOrNew loads a player's record, falling back to a fresh one when the
// player is unknown.
func LoadOrNew(ctx context.Context, rs Records, player string) (Record, error) {
	rec, err := rs.Load(ctx, player)
	if errors.Is(err, ErrNotFound) {
		return NewRecord(player), nil
	}
	if err != nil {
		return NewRecord(player), err
	}
	return rec, nil
}

// MaxPlayerLength is the longest player name kept, in runes.
const MaxPlayerLength = 16

// NormalizePlayer drops non-printable runes and surrounding space from a
// login name and truncates it to MaxPlayerLength.
func NormalizePlayer(name string) (string, error) {
	name = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > MaxPlayerLength {
		name = strings.TrimSpace(string(runes[:MaxPlayerLength]))
	}
	if err := checkPlayer(name); err != nil {
		return "", err
	}
	return name, nil
}

func checkPlayer(player string) error {
	if strings.TrimSpace(player) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	}
	return nil
}
