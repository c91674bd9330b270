package memory

import (
	"context"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/game"
)

type CharacterRepo struct {
	store *Store
}

func NewCharacterRepo(store *Store) CharacterRepo {
	return CharacterRepo{store: store}
}

func (r CharacterRepo) GetByID(ctx context.Context, ownerID, characterID string) (game.Character, error) {
	var (
		c  game.Character
		ok bool
	)
	r.store.read(ctx, func() {
		c, ok = r.store.characters[characterID]
		if ok {
			c = c.Clone()
		}
	})
	if !ok || c.OwnerID != ownerID {
		return game.Character{}, ports.ErrNotFound
	}
	return c, nil
}

func (r CharacterRepo) SaveWithVersion(ctx context.Context, c game.Character, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.characters[c.ID]
		if !ok {
			if expectedVersion != 0 {
				return ports.ErrConflict
			}
			r.store.characters[c.ID] = c.Clone()
			return nil
		}
		if current.Version != expectedVersion || current.OwnerID != c.OwnerID {
			return ports.ErrConflict
		}
		r.store.characters[c.ID] = c.Clone()
		return nil
	})
}

// ListByOwner returns the owner's characters in no particular order.
func (r CharacterRepo) ListByOwner(ctx context.Context, ownerID string) ([]game.Character, error) {
	var out []game.Character
	r.store.read(ctx, func() {
		for _, c := range r.store.characters {
			if c.OwnerID == ownerID {
				out = append(out, c.Clone())
			}
		}
	})
	return out, nil
}
