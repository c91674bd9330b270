package game

import (
	"time"

	"idlescape/internal/domain/skill"
)

// ActionReward describes one completed gathering or crafting cycle.
type ActionReward struct {
	ActionID    string         `json:"action_id"`
	Skill       skill.Name     `json:"skill"`
	Experience  int64          `json:"experience"`
	Items       []ItemStack    `json:"items,omitempty"`
	Consumed    []ItemStack    `json:"consumed,omitempty"`
	LevelUp     *skill.LevelUp `json:"level_up,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GainExperience adds experience to one skill and keeps the derived
// character fields in step with the new level.
func GainExperience(c *Character, name skill.Name, amount int64) (skill.LevelUp, bool) {
	if c.Skills == nil {
		c.Skills = map[skill.Name]skill.Skill{}
	}
	s, ok := c.Skills[name]
	if !ok {
		s = skill.New(1)
	}
	up, leveled := s.Gain(name, amount)
	c.Skills[name] = s
	if !leveled {
		return skill.LevelUp{}, false
	}
	switch name {
	case skill.Hitpoints:
		gain := s.Level - c.MaxHitpoints
		if gain > 0 {
			c.MaxHitpoints = s.Level
			c.Hitpoints += gain
		}
	case skill.Prayer:
		gain := s.Level - c.MaxPrayer
		if gain > 0 {
			c.MaxPrayer = s.Level
			c.Prayer += gain
		}
	}
	c.RecomputeCombatLevel()
	return up, true
}

// CompleteAction applies one completion of a gather or craft action.
// Costs are consumed and rewards granted together; when the character no
// longer qualifies nothing is touched.
func CompleteAction(c *Character, a Action, at time.Time) (ActionReward, error) {
	switch a.Kind {
	case ActionGather, ActionCraft:
	case ActionCombat, ActionCombatSelection, ActionStore:
		return ActionReward{}, ErrActionNotRunnable
	default:
		return ActionReward{}, ErrUnknownAction
	}
	if err := CheckRequirements(c, a); err != nil {
		return ActionReward{}, err
	}
	costs := a.Costs()
	if !c.Bank.CanAfford(costs) {
		return ActionReward{}, ErrInsufficientResources
	}

	c.Stats.ensure()
	for _, cost := range costs {
		c.Bank.Remove(cost.ItemID, cost.Quantity)
		c.Stats.ResourcesConsumed[cost.ItemID] += int64(cost.Quantity)
	}
	reward := ActionReward{
		ActionID:    a.ID,
		Skill:       a.Skill,
		Experience:  a.Experience,
		Consumed:    costs,
		CompletedAt: at,
	}
	if a.ItemReward != nil && a.ItemReward.Quantity > 0 {
		c.Bank.Add(a.ItemReward.ItemID, a.ItemReward.Quantity)
		reward.Items = []ItemStack{*a.ItemReward}
		switch a.Kind {
		case ActionGather:
			c.Stats.ResourcesGathered[a.ItemReward.ItemID] += int64(a.ItemReward.Quantity)
		case ActionCraft:
			c.Stats.ItemsCrafted[a.ItemReward.ItemID] += int64(a.ItemReward.Quantity)
		}
	}
	if up, ok := GainExperience(c, a.Skill, a.Experience); ok {
		reward.LevelUp = &up
	}
	c.Stats.ActionsPerformed[a.ID]++
	c.LastActionTime = at
	return reward, nil
}

// MaxAffordable is how many completions the bank can pay for.
// Actions without item costs return -1 (unbounded).
func MaxAffordable(c *Character, a Action) int {
	costs := a.Costs()
	if len(costs) == 0 {
		return -1
	}
	need := map[ItemID]int{}
	for _, cost := range costs {
		need[cost.ItemID] += cost.Quantity
	}
	limit := -1
	for id, qty := range need {
		n := c.Bank.Quantity(id) / qty
		if limit < 0 || n < limit {
			limit = n
		}
	}
	return limit
}
