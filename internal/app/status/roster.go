package status

import (
	"context"
	"sort"
	"strings"
	"time"

	"idlescape/internal/app/ports"
)

type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CombatLevel  int       `json:"combat_level"`
	TotalLevel   int       `json:"total_level"`
	LastActionID string    `json:"last_action_id,omitempty"`
	LastLogin    time.Time `json:"last_login"`
}

// RosterUseCase lists an owner's characters, most recently played first.
type RosterUseCase struct {
	Characters ports.CharacterLister
}

func (u RosterUseCase) Execute(ctx context.Context, ownerID string) ([]Summary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidRequest
	}
	cs, err := u.Characters.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(cs))
	for _, c := range cs {
		c.Normalize()
		out = append(out, Summary{
			ID:           c.ID,
			Name:         c.Name,
			CombatLevel:  c.CombatLevel,
			TotalLevel:   c.TotalLevel(),
			LastActionID: c.LastActionID,
			LastLogin:    c.LastLogin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastLogin.After(out[j].LastLogin)
	})
	return out, nil
}
