package game

import "time"

const (
	DefaultAttackSpeed       = 2400 * time.Millisecond
	DefaultOfflineMaxElapsed = 12 * time.Hour
	DefaultSlayerCancelCost  = 30

	// Slayer experience per kill is the monster's hitpoints times this factor.
	SlayerExperiencePerHitpoint = 1
	// Hitpoints experience is a third of the combat experience of a kill.
	HitpointsExperienceDivisor = 3
)

// Tuning gathers the balance knobs the engine reads at runtime.
type Tuning struct {
	OfflineMaxElapsed  time.Duration
	SlayerCancelCost   int
	DefaultAttackSpeed time.Duration
	CombatStyle        AttackStyle
}

func DefaultTuning() Tuning {
	return Tuning{
		OfflineMaxElapsed:  DefaultOfflineMaxElapsed,
		SlayerCancelCost:   DefaultSlayerCancelCost,
		DefaultAttackSpeed: DefaultAttackSpeed,
		CombatStyle:        StyleSlash,
	}
}

// WithDefaults fills zero fields from DefaultTuning.
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	if t.OfflineMaxElapsed <= 0 {
		t.OfflineMaxElapsed = d.OfflineMaxElapsed
	}
	if t.SlayerCancelCost <= 0 {
		t.SlayerCancelCost = d.SlayerCancelCost
	}
	if t.DefaultAttackSpeed <= 0 {
		t.DefaultAttackSpeed = d.DefaultAttackSpeed
	}
	if !t.CombatStyle.Valid() {
		t.CombatStyle = d.CombatStyle
	}
	return t
}
