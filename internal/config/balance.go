package config

import (
	"fmt"
	"os"
	"time"

	"idlescape/internal/domain/game"

	"gopkg.in/yaml.v3"
)

// Balance overrides gameplay tuning. Zero fields keep the engine defaults.
type Balance struct {
	OfflineMaxElapsed  time.Duration `yaml:"offline_max_elapsed"`
	SlayerCancelCost   int           `yaml:"slayer_cancel_cost"`
	DefaultAttackSpeed time.Duration `yaml:"default_attack_speed"`
	CombatStyle        string        `yaml:"combat_style"`
}

// LoadBalance reads a balance file; an empty path yields the defaults.
func LoadBalance(path string) (Balance, error) {
	if path == "" {
		return Balance{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	return ParseBalance(b)
}

func ParseBalance(b []byte) (Balance, error) {
	var out Balance
	if err := yaml.Unmarshal(b, &out); err != nil {
		return Balance{}, fmt.Errorf("parse balance: %w", err)
	}
	if out.CombatStyle != "" && !game.AttackStyle(out.CombatStyle).Valid() {
		return Balance{}, fmt.Errorf("parse balance: unknown combat_style %q", out.CombatStyle)
	}
	if out.OfflineMaxElapsed < 0 || out.DefaultAttackSpeed < 0 || out.SlayerCancelCost < 0 {
		return Balance{}, fmt.Errorf("parse balance: negative values are not allowed")
	}
	return out, nil
}

func (b Balance) Tuning() game.Tuning {
	return game.Tuning{
		OfflineMaxElapsed:  b.OfflineMaxElapsed,
		SlayerCancelCost:   b.SlayerCancelCost,
		DefaultAttackSpeed: b.DefaultAttackSpeed,
		CombatStyle:        game.AttackStyle(b.CombatStyle),
	}.WithDefaults()
}
