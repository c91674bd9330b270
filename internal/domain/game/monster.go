package game

import "time"

type AttackStyle string

const (
	StyleStab   AttackStyle = "stab"
	StyleSlash  AttackStyle = "slash"
	StyleCrush  AttackStyle = "crush"
	StyleMagic  AttackStyle = "magic"
	StyleRanged AttackStyle = "ranged"
)

func (s AttackStyle) Valid() bool {
	switch s {
	case StyleStab, StyleSlash, StyleCrush, StyleMagic, StyleRanged:
		return true
	default:
		return false
	}
}

type Drop struct {
	ItemID   ItemID  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Chance   float64 `json:"chance"`
}

type MonsterStats struct {
	Attack         int                 `json:"attack"`
	Strength       int                 `json:"strength"`
	Defence        int                 `json:"defence"`
	AttackBonus    int                 `json:"attack_bonus"`
	StrengthBonus  int                 `json:"strength_bonus"`
	DefenceBonuses map[AttackStyle]int `json:"defence_bonuses,omitempty"`
}

// Monster is an immutable combat stat block.
type Monster struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CombatLevel int           `json:"combat_level"`
	Hitpoints   int           `json:"hitpoints"`
	AttackStyle AttackStyle   `json:"attack_style"`
	AttackSpeed time.Duration `json:"attack_speed"`
	Experience  int64         `json:"experience,omitempty"`
	Stats       MonsterStats  `json:"stats"`
	Drops       []Drop        `json:"drops,omitempty"`
}

// KillExperience is the combat experience awarded for one kill.
func (m Monster) KillExperience() int64 {
	if m.Experience > 0 {
		return m.Experience
	}
	return int64(m.Hitpoints) * 4
}
