package memory

import (
	"context"
	"sync"

	"idlescape/internal/domain/game"
)

type Store struct {
	mu         sync.RWMutex
	characters map[string]game.Character
	events     map[string][]game.DomainEvent
}

func NewStore() *Store {
	return &Store{
		characters: make(map[string]game.Character),
		events:     make(map[string][]game.DomainEvent),
	}
}

func (s *Store) SeedCharacter(c game.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[c.ID] = c.Clone()
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read and write take the store lock unless the caller already holds it
// through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn()
}
