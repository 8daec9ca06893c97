// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for game action logs.
const DefaultQueueName = "ginrummy_actions"

// GameActionRecord holds the minimal info needed to replay a hand action by action.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	Actor         string                 `json:"actor"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis opens a client to addr/db and pings it.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Historian pushes action records onto a Redis list for an external consumer.
type Historian struct {
	rdb   redis.Cmdable
	queue string
}

// NewHistorian builds a historian writing to queue. An empty queue uses DefaultQueueName.
func NewHistorian(rdb redis.Cmdable, queue string) *Historian {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Historian{rdb: rdb, queue: queue}
}

// Queue returns the list name records are pushed to.
func (h *Historian) Queue() string {
	return h.queue
}

// PublishGameAction serializes the given record to JSON, then pushes it to the Redis queue.
func (h *Historian) PublishGameAction(ctx context.Context, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := h.rdb.RPush(ctx, h.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", h.queue, err)
	}
	return nil
}
