package game

import (
	"time"

	"idlescape/internal/domain/skill"
)

// Character is the persisted root aggregate. It never carries engine
// session state, so a copy is always safe to serialize.
type Character struct {
	ID                 string                     `json:"id"`
	OwnerID            string                     `json:"owner_id"`
	Name               string                     `json:"name"`
	CombatLevel        int                        `json:"combat_level"`
	Hitpoints          int                        `json:"hitpoints"`
	MaxHitpoints       int                        `json:"max_hitpoints"`
	Prayer             int                        `json:"prayer"`
	MaxPrayer          int                        `json:"max_prayer"`
	Skills             map[skill.Name]skill.Skill `json:"skills"`
	Bank               Bank                       `json:"bank"`
	Equipment          map[EquipmentSlot]ItemID   `json:"equipment"`
	LastActionTime     time.Time                  `json:"last_action_time"`
	LastLogin          time.Time                  `json:"last_login"`
	LastActionID       string                     `json:"last_action_id,omitempty"`
	LastActionLocation string                     `json:"last_action_location,omitempty"`
	CurrentSlayerTask  *SlayerTask                `json:"current_slayer_task,omitempty"`
	SlayerPoints       int                        `json:"slayer_points"`
	SlayerTaskStreak   int                        `json:"slayer_task_streak"`
	Stats              Stats                      `json:"stats"`
	Version            int64                      `json:"version"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// Stats counters never go negative and only grow.
type Stats struct {
	ActionsPerformed     map[string]int64 `json:"actions_performed"`
	ResourcesGathered    map[ItemID]int64 `json:"resources_gathered"`
	ItemsCrafted         map[ItemID]int64 `json:"items_crafted"`
	ResourcesConsumed    map[ItemID]int64 `json:"resources_consumed"`
	KillsByMonster       map[string]int64 `json:"kills_by_monster"`
	MonstersKilled       int64            `json:"monsters_killed"`
	Deaths               int64            `json:"deaths"`
	SlayerTasksCompleted int64            `json:"slayer_tasks_completed"`
	SlayerTasksCancelled int64            `json:"slayer_tasks_cancelled"`
	OfflineActions       int64            `json:"offline_actions"`
}

const startingHitpointsLevel = 10

func NewCharacter(id, ownerID, name string, now time.Time) Character {
	skills := make(map[skill.Name]skill.Skill, len(skill.All()))
	for _, n := range skill.All() {
		skills[n] = skill.New(1)
	}
	skills[skill.Hitpoints] = skill.New(startingHitpointsLevel)
	c := Character{
		ID:             id,
		OwnerID:        ownerID,
		Name:           name,
		Hitpoints:      startingHitpointsLevel,
		MaxHitpoints:   startingHitpointsLevel,
		Prayer:         1,
		MaxPrayer:      1,
		Skills:         skills,
		Bank:           Bank{},
		Equipment:      map[EquipmentSlot]ItemID{},
		LastActionTime: now,
		LastLogin:      now,
		UpdatedAt:      now,
	}
	c.Stats.ensure()
	c.RecomputeCombatLevel()
	return c
}

func (c *Character) SkillLevel(n skill.Name) int {
	if s, ok := c.Skills[n]; ok && s.Level > 0 {
		return s.Level
	}
	return skill.MinLevel
}

func (c *Character) Equipped(slot EquipmentSlot) ItemID {
	if c.Equipment == nil {
		return ""
	}
	return c.Equipment[slot]
}

// Equip places id into its slot, returning whatever item it replaced.
func (c *Character) Equip(id ItemID, slot EquipmentSlot) ItemID {
	if c.Equipment == nil {
		c.Equipment = map[EquipmentSlot]ItemID{}
	}
	prev := c.Equipment[slot]
	c.Equipment[slot] = id
	return prev
}

func (c *Character) RecomputeCombatLevel() {
	levels := make(map[skill.Name]int, len(c.Skills))
	for n, s := range c.Skills {
		levels[n] = s.Level
	}
	c.CombatLevel = skill.CombatLevel(levels)
}

// TotalLevel and TotalExperience feed the leaderboards.
func (c *Character) TotalLevel() int {
	total := 0
	for _, s := range c.Skills {
		total += s.Level
	}
	return total
}

func (c *Character) TotalExperience() int64 {
	var total int64
	for _, s := range c.Skills {
		total += s.Experience
	}
	return total
}

// Normalize fills nil maps and repairs skill invariants after loading.
func (c *Character) Normalize() {
	if c.Skills == nil {
		c.Skills = map[skill.Name]skill.Skill{}
	}
	for _, n := range skill.All() {
		s, ok := c.Skills[n]
		if !ok {
			if n == skill.Hitpoints {
				s = skill.New(startingHitpointsLevel)
			} else {
				s = skill.New(1)
			}
		}
		c.Skills[n] = s.Normalize()
	}
	if c.Bank == nil {
		c.Bank = Bank{}
	}
	if c.Equipment == nil {
		c.Equipment = map[EquipmentSlot]ItemID{}
	}
	if c.MaxHitpoints < c.SkillLevel(skill.Hitpoints) {
		c.MaxHitpoints = c.SkillLevel(skill.Hitpoints)
	}
	if c.MaxPrayer < c.SkillLevel(skill.Prayer) {
		c.MaxPrayer = c.SkillLevel(skill.Prayer)
	}
	if c.Hitpoints > c.MaxHitpoints {
		c.Hitpoints = c.MaxHitpoints
	}
	c.Stats.ensure()
	c.RecomputeCombatLevel()
}

// Clone returns a deep copy.
func (c Character) Clone() Character {
	out := c
	out.Skills = make(map[skill.Name]skill.Skill, len(c.Skills))
	for k, v := range c.Skills {
		out.Skills[k] = v
	}
	out.Bank = c.Bank.Clone()
	out.Equipment = make(map[EquipmentSlot]ItemID, len(c.Equipment))
	for k, v := range c.Equipment {
		out.Equipment[k] = v
	}
	if c.CurrentSlayerTask != nil {
		task := *c.CurrentSlayerTask
		out.CurrentSlayerTask = &task
	}
	out.Stats = c.Stats.clone()
	return out
}

func (s *Stats) ensure() {
	if s.ActionsPerformed == nil {
		s.ActionsPerformed = map[string]int64{}
	}
	if s.ResourcesGathered == nil {
		s.ResourcesGathered = map[ItemID]int64{}
	}
	if s.ItemsCrafted == nil {
		s.ItemsCrafted = map[ItemID]int64{}
	}
	if s.ResourcesConsumed == nil {
		s.ResourcesConsumed = map[ItemID]int64{}
	}
	if s.KillsByMonster == nil {
		s.KillsByMonster = map[string]int64{}
	}
}

func (s Stats) clone() Stats {
	out := s
	out.ActionsPerformed = cloneCounts(s.ActionsPerformed)
	out.ResourcesGathered = cloneCounts(s.ResourcesGathered)
	out.ItemsCrafted = cloneCounts(s.ItemsCrafted)
	out.ResourcesConsumed = cloneCounts(s.ResourcesConsumed)
	out.KillsByMonster = cloneCounts(s.KillsByMonster)
	return out
}

func cloneCounts[K comparable](in map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
