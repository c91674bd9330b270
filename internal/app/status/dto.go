package status

import "idlescape/internal/domain/game"

type Request struct {
	OwnerID     string
	CharacterID string
}

type Response struct {
	Character       game.Character `json:"character"`
	TotalLevel      int            `json:"total_level"`
	TotalExperience int64          `json:"total_experience"`
}
