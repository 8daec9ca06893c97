// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/ginrummy/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS games (
		id               UUID PRIMARY KEY,
		player_one       TEXT NOT NULL DEFAULT '',
		player_two       TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'in_progress',
		final_game_state JSONB,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_time         TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS hand_results (
		game_id           UUID PRIMARY KEY REFERENCES games (id),
		winner            TEXT NOT NULL,
		winner_name       TEXT NOT NULL,
		kind              TEXT NOT NULL,
		points            INTEGER NOT NULL,
		declarer          TEXT NOT NULL,
		declarer_deadwood INTEGER NOT NULL,
		defender_deadwood INTEGER NOT NULL,
		recorded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games (id),
		action_index   INTEGER NOT NULL,
		actor          TEXT NOT NULL,
		action_type    TEXT NOT NULL,
		action_payload JSONB NOT NULL,
		action_time    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, action_index)
	);
`

// HandStore persists finished hands.
type HandStore struct {
	db TxStarter
}

// NewHandStore wraps db, usually a *pgxpool.Pool.
func NewHandStore(db TxStarter) *HandStore {
	return &HandStore{db: db}
}

// EnsureSchema creates the games, hand_results and game_actions tables if they are missing.
func (s *HandStore) EnsureSchema(ctx context.Context) error {
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// RecordHandResult marks the game completed and stores its result in one transaction.
func (s *HandStore) RecordHandResult(ctx context.Context, gameID uuid.UUID, names [2]string, result models.HandResult) error {
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, player_one, player_two, status)
			VALUES ($1, $2, $3, 'completed')
			ON CONFLICT (id)
			DO UPDATE SET player_one = $2, player_two = $3, status = 'completed', end_time = NOW()
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, names[0], names[1]); e != nil {
			return e
		}

		q := `
			INSERT INTO hand_results (game_id, winner, winner_name, kind, points, declarer, declarer_deadwood, defender_deadwood)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (game_id)
			DO UPDATE SET winner=$2, winner_name=$3, kind=$4, points=$5, declarer=$6, declarer_deadwood=$7, defender_deadwood=$8
		`
		_, e := tx.Exec(ctx, q,
			gameID,
			result.Winner.String(),
			names[result.Winner.Index()],
			string(result.Kind),
			result.Points,
			result.Declarer.String(),
			result.DeclarerDeadwood,
			result.DefenderDeadwood,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or hand result: %w", err)
	}
	return nil
}

// StoreFinalGameState saves a JSON snapshot of the finished hand (both hands and melds)
// in games.final_game_state.
func (s *HandStore) StoreFinalGameState(ctx context.Context, gameID uuid.UUID, snapshot interface{}) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal final snapshot: %w", err)
	}
	query := `
		UPDATE games
		SET final_game_state = $1
		WHERE id = $2
	`
	err = pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, query, jsonData, gameID)
		return e
	})
	if err != nil {
		return fmt.Errorf("storing final game state in DB: %w", err)
	}
	return nil
}
