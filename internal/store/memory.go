package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is a process-local Records implementation.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (m *Memory) Load(_ context.Context, player string) (Record, error) {
	if err := checkPlayer(player); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[player]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) SubmitCombo(ctx context.Context, player string, combo int) error {
	return m.SubmitRound(ctx, player, 0, combo)
}

func (m *Memory) SubmitRound(_ context.Context, player string, score, combo int) error {
	if err := checkPlayer(player); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.get(player)
	rec.HighScore = max(rec.HighScore, score)
	rec.BestCombo = max(rec.BestCombo, combo)
	m.records[player] = rec
	return nil
}

func (m *Memory) SetTheme(_ context.Context, player string, theme Theme) error {
	if err := checkPlayer(player); err != nil {
		return err
	}
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.get(player)
	rec.Theme = theme
	m.records[player] = rec
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := cmp.Compare(b.HighScore, a.HighScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// get must be called with mu held.
func (m *Memory) get(player string) Record {
	rec, ok := m.records[player]
	if !ok {
		rec = NewRecord(player)
	}
	return rec
}
