package memory

import (
	"context"

	"idlescape/internal/domain/game"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, characterID string, events []game.DomainEvent) error {
	return r.store.write(ctx, func() error {
		r.store.events[characterID] = append(r.store.events[characterID], events...)
		return nil
	})
}

// ListByCharacterID returns the most recent events, newest first.
func (r EventRepo) ListByCharacterID(ctx context.Context, characterID string, limit int) ([]game.DomainEvent, error) {
	var out []game.DomainEvent
	r.store.read(ctx, func() {
		all := r.store.events[characterID]
		for i := len(all) - 1; i >= 0; i-- {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, all[i])
		}
	})
	return out, nil
}
