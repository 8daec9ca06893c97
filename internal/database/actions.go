// internal/database/actions.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/ginrummy/internal/cache"
	"github.com/jason-s-yu/ginrummy/internal/game"
)

// RecordActions stores a batch of action records in a single transaction.
func (s *HandStore) RecordActions(ctx context.Context, records []cache.GameActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertGameActionTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording %d actions: %w", len(records), err)
	}
	return nil
}

// insertGameActionTx inserts a single action record into the game_actions table and
// upserts the game row if necessary. Hand end and abort actions close the game row.
func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status)
		VALUES ($1, 'in_progress')
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor, action_type, action_payload, action_time
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	_, err = tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, rec.Actor, rec.ActionType, jsonPayload, time.UnixMilli(rec.Timestamp).UTC(),
	)
	if err != nil {
		return err
	}

	var status string
	switch rec.ActionType {
	case string(game.EventHandEnd):
		status = "completed"
	case string(game.EventHandAborted):
		status = "aborted"
	default:
		return nil
	}
	finalizeQ := `
		UPDATE games
		SET status = $2, end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	_, err = tx.Exec(ctx, finalizeQ, rec.GameID, status)
	return err
}

// MarkAbandoned marks a game as 'abandoned' if it is still 'in_progress'.
func (s *HandStore) MarkAbandoned(ctx context.Context, gameID uuid.UUID) error {
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to mark game %v abandoned: %w", gameID, err)
	}
	return nil
}
