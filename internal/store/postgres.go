package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "player_records"
	colPlayer    = "player"
	colHighScore = "high_score"
	colBestCombo = "best_combo"
	colTheme     = "theme"
	colUpdatedAt = "updated_at"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_records (
	player     TEXT PRIMARY KEY,
	high_score INTEGER NOT NULL DEFAULT 0,
	best_combo INTEGER NOT NULL DEFAULT 0,
	theme      TEXT NOT NULL DEFAULT 'dark',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS player_records_high_score_idx ON player_records (high_score DESC);
`

// Postgres stores records in PostgreSQL. The maxima are enforced by the
// upserts themselves, so concurrent sessions of one player cannot lower a
// stored value.
type Postgres struct {
	pool *pgxpool.Pool
	tx   trm.Manager
	sb   sq.StatementBuilderType
}

// NewPostgres wraps a pool. tx runs SubmitRound in a single transaction.
func NewPostgres(pool *pgxpool.Pool, tx trm.Manager) *Postgres {
	return &Postgres{
		pool: pool,
		tx:   tx,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the records table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}
	return nil
}

// conn returns the transaction bound to ctx, or the pool outside one.
func (p *Postgres) conn(ctx context.Context) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, p.pool)
}

func (p *Postgres) Load(ctx context.Context, player string) (Record, error) {
	if err := checkPlayer(player); err != nil {
		return Record{}, err
	}
	query := p.sb.Select(colPlayer, colHighScore, colBestCombo, colTheme).
		From(table).
		Where(sq.Eq{colPlayer: player})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return Record{}, err
	}

	var rec Record
	var theme string
	err = p.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&rec.Player, &rec.HighScore, &rec.BestCombo, &theme)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load %q: %w", player, err)
	}
	rec.Theme = Theme(theme)
	return rec, nil
}

func (p *Postgres) SubmitCombo(ctx context.Context, player string, combo int) error {
	return p.upsertMax(ctx, player, colBestCombo, combo)
}

func (p *Postgres) SubmitRound(ctx context.Context, player string, score, combo int) error {
	return p.tx.Do(ctx, func(txCtx context.Context) error {
		if err := p.upsertMax(txCtx, player, colHighScore, score); err != nil {
			return err
		}
		return p.upsertMax(txCtx, player, colBestCombo, combo)
	})
}

// upsertMax inserts the player or raises col to value, never lowering it.
func (p *Postgres) upsertMax(ctx context.Context, player, col string, value int) error {
	if err := checkPlayer(player); err != nil {
		return err
	}
	sqlStr, args, err := p.upsertMaxQuery(player, col, value).ToSql()
	if err != nil {
		return err
	}
	if _, err := p.conn(ctx).Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("update %s for %q: %w", col, player, err)
	}
	return nil
}

func (p *Postgres) upsertMaxQuery(player, col string, value int) sq.InsertBuilder {
	return p.sb.Insert(table).
		Columns(colPlayer, col).
		Values(player, value).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%[1]s) DO UPDATE SET %[2]s = GREATEST(%[3]s.%[2]s, EXCLUDED.%[2]s), %[4]s = now()",
			colPlayer, col, table, colUpdatedAt,
		))
}

func (p *Postgres) SetTheme(ctx context.Context, player string, theme Theme) error {
	if err := checkPlayer(player); err != nil {
		return err
	}
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	query := p.sb.Insert(table).
		Columns(colPlayer, colTheme).
		Values(player, string(theme)).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%[1]s) DO UPDATE SET %[2]s = EXCLUDED.%[2]s, %[3]s = now()",
			colPlayer, colTheme, colUpdatedAt,
		))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	if _, err := p.conn(ctx).Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("set theme for %q: %w", player, err)
	}
	return nil
}

func (p *Postgres) Top(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	query := p.sb.Select(colPlayer, colHighScore, colBestCombo, colTheme).
		From(table).
		OrderBy(colHighScore+" DESC", colPlayer).
		Limit(uint64(n))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := p.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("top records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var theme string
		if err := rows.Scan(&rec.Player, &rec.HighScore, &rec.BestCombo, &theme); err != nil {
			return nil, err
		}
		rec.Theme = Theme(theme)
		out = append(out, rec)
	}
	return out, rows.Err()
}
