package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// KillRecord is one combat log row: an entity dropped to zero health.
type KillRecord struct {
	Frame       uint64
	Victim      int
	VictimTag   string
	VictimGroup string
	Killer      int
	Damage      int
	At          time.Time
}

// CombatLogRepo writes the kills of one game session.
type CombatLogRepo struct {
	db      *DB
	session uuid.UUID
}

func NewCombatLogRepo(db *DB, session uuid.UUID) *CombatLogRepo {
	return &CombatLogRepo{db: db, session: session}
}

func (r *CombatLogRepo) Session() uuid.UUID { return r.session }

// StartSession records the session row every kill references.
func (r *CombatLogRepo) StartSession(ctx context.Context, name, level string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO game_sessions (id, name, level) VALUES ($1, $2, $3)`,
		r.session, name, level,
	)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// EndSession stamps the end time and the number of frames played.
func (r *CombatLogRepo) EndSession(ctx context.Context, frames uint64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE game_sessions SET ended_at = now(), frames = $2 WHERE id = $1`,
		r.session, int64(frames),
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// WriteKills atomically writes a batch of kill records in a single transaction.
func (r *CombatLogRepo) WriteKills(ctx context.Context, records []KillRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("combat log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, k := range records {
		batch.Queue(
			`INSERT INTO combat_log (session_id, frame, victim, victim_tag, victim_group, killer, damage, killed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.session, int64(k.Frame), k.Victim, k.VictimTag, k.VictimGroup, k.Killer, k.Damage, k.At,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("combat log insert: %w", err)
	}

	return tx.Commit(ctx)
}

// CountKills returns how many kills the session has recorded.
func (r *CombatLogRepo) CountKills(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM combat_log WHERE session_id = $1`, r.session,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count kills: %w", err)
	}
	return n, nil
}
