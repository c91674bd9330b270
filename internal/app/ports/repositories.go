package ports

import (
	"context"

	"idlescape/internal/domain/game"
)

// CharacterRepository stores whole character documents. A character owned
// by someone else is reported as ErrNotFound.
type CharacterRepository interface {
	GetByID(ctx context.Context, ownerID, characterID string) (game.Character, error)
	// SaveWithVersion creates when expectedVersion is 0 and otherwise
	// fails with ErrConflict unless the stored version matches.
	SaveWithVersion(ctx context.Context, character game.Character, expectedVersion int64) error
}

type EventRepository interface {
	Append(ctx context.Context, characterID string, events []game.DomainEvent) error
	ListByCharacterID(ctx context.Context, characterID string, limit int) ([]game.DomainEvent, error)
}

// CharacterLister backs the character roster.
type CharacterLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]game.Character, error)
}
