package game

import (
	"fmt"

	"idlescape/internal/domain/skill"
)

type RequirementKind string

const (
	RequirementLevel     RequirementKind = "level"
	RequirementItem      RequirementKind = "item"
	RequirementEquipment RequirementKind = "equipment"
)

// Requirement is a tagged variant; which fields are meaningful depends on Kind.
type Requirement struct {
	Kind     RequirementKind `json:"kind"`
	Skill    skill.Name      `json:"skill,omitempty"`
	Level    int             `json:"level,omitempty"`
	ItemID   ItemID          `json:"item_id,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
	// Slot is the slot an equipment requirement checks. Empty falls back to
	// the id family of ItemID.
	Slot EquipmentSlot `json:"slot,omitempty"`
}

func LevelRequirement(s skill.Name, level int) Requirement {
	return Requirement{Kind: RequirementLevel, Skill: s, Level: level}
}

func ItemRequirement(id ItemID, quantity int) Requirement {
	return Requirement{Kind: RequirementItem, ItemID: id, Quantity: quantity}
}

func EquipmentRequirement(id ItemID) Requirement {
	return Requirement{Kind: RequirementEquipment, ItemID: id}
}

func (r Requirement) String() string {
	switch r.Kind {
	case RequirementLevel:
		return fmt.Sprintf("%s level %d", r.Skill, r.Level)
	case RequirementItem:
		return fmt.Sprintf("%dx %s", r.Quantity, r.ItemID)
	case RequirementEquipment:
		return fmt.Sprintf("equipped %s", r.ItemID)
	default:
		return string(r.Kind)
	}
}

// Met evaluates the requirement against the character without mutating it.
func (r Requirement) Met(c *Character) bool {
	switch r.Kind {
	case RequirementLevel:
		return c.SkillLevel(r.Skill) >= r.Level
	case RequirementItem:
		return c.Bank.Quantity(r.ItemID) >= r.Quantity
	case RequirementEquipment:
		slot := r.Slot
		if slot == "" {
			var ok bool
			if slot, ok = SlotForItem(r.ItemID); !ok {
				return false
			}
		}
		return c.Equipped(slot) != ""
	default:
		return false
	}
}

// CanPerformAction is the logical AND of every requirement of the action.
// An action without requirements always passes.
func CanPerformAction(c *Character, a Action) bool {
	_, unmet := UnmetRequirement(c, a)
	return !unmet
}

// UnmetRequirement returns the first failing requirement, if any.
func UnmetRequirement(c *Character, a Action) (Requirement, bool) {
	if c == nil {
		return Requirement{}, true
	}
	for _, r := range a.AllRequirements() {
		if !r.Met(c) {
			return r, true
		}
	}
	return Requirement{}, false
}

// CheckRequirements is UnmetRequirement expressed as an error.
func CheckRequirements(c *Character, a Action) error {
	if r, unmet := UnmetRequirement(c, a); unmet {
		return &RequirementError{Requirement: r}
	}
	return nil
}
