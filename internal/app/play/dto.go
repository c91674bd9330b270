package play

import (
	"errors"

	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

var (
	ErrInvalidRequest  = errors.New("invalid play request")
	ErrNoActiveSession = errors.New("no active session")
)

type CreateRequest struct {
	OwnerID string
	Name    string
}

type LoadRequest struct {
	OwnerID     string
	CharacterID string
}

type StartRequest struct {
	OwnerID  string
	Location string
	ActionID string
}

type EquipRequest struct {
	OwnerID string
	ItemID  game.ItemID
	// Unequip empties Slot instead of equipping ItemID.
	Unequip bool
	Slot    game.EquipmentSlot
}

type SlayerRequest struct {
	OwnerID    string
	Difficulty game.Difficulty
}

// View is the observable session state.
type View struct {
	SessionID        string             `json:"session_id"`
	State            engine.State       `json:"state"`
	CurrentAction    *game.Action       `json:"current_action,omitempty"`
	Progress         float64            `json:"progress"`
	MonsterHP        int                `json:"monster_hp,omitempty"`
	LastActionReward *game.ActionReward `json:"last_action_reward,omitempty"`
	LastCombatRound  *game.CombatRound  `json:"last_combat_round,omitempty"`
	OfflinePending   bool               `json:"offline_pending"`
	Character        game.Character     `json:"character"`
}

type LoadResponse struct {
	View View `json:"view"`
	// OfflineReason explains why no offline rewards were produced.
	OfflineReason string `json:"offline_reason,omitempty"`
}

type ActionView struct {
	Action     game.Action `json:"action"`
	CanPerform bool        `json:"can_perform"`
	BlockedBy  string      `json:"blocked_by,omitempty"`
}

type SlayerResponse struct {
	Task         *game.SlayerTask `json:"task,omitempty"`
	PointsEarned int              `json:"points_earned,omitempty"`
	SlayerPoints int              `json:"slayer_points"`
	Streak       int              `json:"streak"`
}

// TickReport summarises one pass of the tick loop.
type TickReport struct {
	Sessions    int
	Completions int
	Rounds      int
	Saved       int
	Evicted     int
}
