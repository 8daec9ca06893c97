package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// GameStore keeps games in memory by id. Do serializes every mutation of one game, so the
// whole GinGame is a single critical section.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*GinGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*GinGame),
	}
}

func (s *GameStore) AddGame(game *GinGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*GinGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Do runs fn with the game's lock held and returns fn's error.
func (s *GameStore) Do(id uuid.UUID, fn func(g *GinGame) error) error {
	g, ok := s.GetGame(id)
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return fn(g)
}
