// Package historian drains the Redis action queue into PostgreSQL and marks games
// abandoned once their actions stop arriving.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/ginrummy/internal/cache"
	"github.com/jason-s-yu/ginrummy/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Sink is where popped actions end up; database.HandStore implements it.
type Sink interface {
	RecordActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Options tune batching and inactivity handling.
type Options struct {
	Queue      string
	BatchSize  int
	FlushDelay time.Duration
	PopTimeout time.Duration
	Inactivity time.Duration // duration until a game is marked abandoned
	SweepEvery time.Duration
}

// Service captures game actions from Redis in batches.
type Service struct {
	rdb  redis.Cmdable
	sink Sink
	opts Options
	log  *logrus.Entry

	// only touched by the Run loop
	lastActivity map[uuid.UUID]time.Time

	batchMu sync.Mutex
	batch   []cache.GameActionRecord
}

// NewService fills unset options with defaults: the default queue, batches of 20, a 500ms
// flush, a 3s pop timeout, 10 minutes of inactivity and a sweep every minute.
func NewService(rdb redis.Cmdable, sink Sink, opts Options, logger *logrus.Logger) *Service {
	if opts.Queue == "" {
		opts.Queue = cache.DefaultQueueName
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = 3 * time.Second
	}
	if opts.Inactivity <= 0 {
		opts.Inactivity = 10 * time.Minute
	}
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = time.Minute
	}
	return &Service{
		rdb:          rdb,
		sink:         sink,
		opts:         opts,
		log:          logger.WithField("queue", opts.Queue),
		lastActivity: make(map[uuid.UUID]time.Time),
		batch:        make([]cache.GameActionRecord, 0, opts.BatchSize),
	}
}

// Run pops, batches and flushes until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) error {
	flush := time.NewTicker(s.opts.FlushDelay)
	defer flush.Stop()
	sweep := time.NewTicker(s.opts.SweepEvery)
	defer sweep.Stop()

	s.log.Info("Historian service started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Historian shutting down")
			return s.Flush(context.Background())

		case <-flush.C:
			if err := s.Flush(ctx); err != nil {
				s.log.WithError(err).Error("Failed to flush actions")
			}

		case now := <-sweep.C:
			s.SweepInactive(ctx, now)

		default:
			if _, err := s.PopOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.WithError(err).Error("BLPop failed")
			}
		}
	}
}

// PopOnce waits up to PopTimeout for one record. It reports whether a record was queued.
// Records that do not decode are logged and dropped.
func (s *Service) PopOnce(ctx context.Context) (bool, error) {
	res, err := s.rdb.BLPop(ctx, s.opts.PopTimeout, s.opts.Queue).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return false, nil
	}

	var record cache.GameActionRecord
	if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
		s.log.WithError(err).Warn("Invalid action record")
		return false, nil
	}
	switch record.ActionType {
	case string(game.EventHandEnd), string(game.EventHandAborted):
		delete(s.lastActivity, record.GameID)
	default:
		s.lastActivity[record.GameID] = time.Now()
	}

	if s.appendToBatch(record) {
		if err := s.Flush(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

// appendToBatch adds a record and reports whether the batch is full.
func (s *Service) appendToBatch(record cache.GameActionRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, record)
	return len(s.batch) >= s.opts.BatchSize
}

// Pending returns how many records wait for the next flush.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

// Flush writes the current batch in one transaction. A failed batch is dropped.
func (s *Service) Flush(ctx context.Context) error {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return nil
	}
	batchCopy := make([]cache.GameActionRecord, len(s.batch))
	copy(batchCopy, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.sink.RecordActions(ctx, batchCopy); err != nil {
		return err
	}
	s.log.WithField("count", len(batchCopy)).Debug("Flushed actions to DB")
	return nil
}

// SweepInactive marks every game whose last action is older than the inactivity window.
func (s *Service) SweepInactive(ctx context.Context, now time.Time) {
	for gameID, last := range s.lastActivity {
		if now.Sub(last) <= s.opts.Inactivity {
			continue
		}
		if err := s.sink.MarkAbandoned(ctx, gameID); err != nil {
			s.log.WithError(err).WithField("game", gameID.String()).Error("Failed to mark game abandoned")
			continue
		}
		delete(s.lastActivity, gameID)
		s.log.WithField("game", gameID.String()).Info("Marked game abandoned due to inactivity")
	}
}
