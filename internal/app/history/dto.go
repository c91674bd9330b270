package history

import (
	"time"

	"idlescape/internal/domain/game"
)

type Request struct {
	CharacterID  string
	Limit        int
	OccurredFrom time.Time
	OccurredTo   time.Time
}

type Response struct {
	Events []game.DomainEvent `json:"events"`
	// Summary counts the returned events by type.
	Summary map[string]int `json:"summary"`
}
