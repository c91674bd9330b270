package game

import (
	"time"

	"idlescape/internal/domain/skill"
)

type ActionKind string

const (
	ActionGather          ActionKind = "gather"
	ActionCraft           ActionKind = "craft"
	ActionCombat          ActionKind = "combat"
	ActionCombatSelection ActionKind = "combat_selection"
	ActionStore           ActionKind = "store"
)

func (k ActionKind) Valid() bool {
	switch k {
	case ActionGather, ActionCraft, ActionCombat, ActionCombatSelection, ActionStore:
		return true
	default:
		return false
	}
}

// Runnable reports whether the kind can occupy the session as a current action.
// Combat selection and stores are menus, not timed work.
func (k ActionKind) Runnable() bool {
	switch k {
	case ActionGather, ActionCraft, ActionCombat:
		return true
	case ActionCombatSelection, ActionStore:
		return false
	default:
		return false
	}
}

// Action is an immutable catalog definition.
type Action struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Kind          ActionKind    `json:"kind"`
	Location      string        `json:"location"`
	Skill         skill.Name    `json:"skill"`
	LevelRequired int           `json:"level_required"`
	Experience    int64         `json:"experience"`
	BaseTime      time.Duration `json:"base_time"`
	ItemReward    *ItemStack    `json:"item_reward,omitempty"`
	Requirements  []Requirement `json:"requirements,omitempty"`
	MonsterID     string        `json:"monster_id,omitempty"`
}

func (a Action) IsCombat() bool {
	return a.Kind == ActionCombat
}

// AllRequirements returns the declared requirements plus the implicit level
// requirement on the action's own skill.
func (a Action) AllRequirements() []Requirement {
	out := make([]Requirement, 0, len(a.Requirements)+1)
	if a.Skill != "" && a.LevelRequired > 1 {
		out = append(out, LevelRequirement(a.Skill, a.LevelRequired))
	}
	return append(out, a.Requirements...)
}

// Costs returns the item stacks consumed by one completion.
func (a Action) Costs() []ItemStack {
	var out []ItemStack
	for _, r := range a.Requirements {
		if r.Kind == RequirementItem && r.Quantity > 0 {
			out = append(out, ItemStack{ItemID: r.ItemID, Quantity: r.Quantity})
		}
	}
	return out
}

type Location struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}
