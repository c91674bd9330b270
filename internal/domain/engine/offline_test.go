package engine

import (
	"errors"
	"testing"
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

func TestProcessOfflineProgress_CutTreeForThirtySeconds(t *testing.T) {
	c := woodcutter()
	c.LastActionID = "cut_tree"
	c.LastActionLocation = "lumbridge"
	c.LastActionTime = t0
	now := t0.Add(30 * time.Second)

	out, err := ProcessOfflineProgress(c, fixtureCatalog(), now, game.DefaultTuning())
	if err != nil {
		t.Fatalf("offline error: %v", err)
	}
	if out.ActionsCompleted != 10 || out.Experience != 250 {
		t.Fatalf("expected 10 completions / 250 xp, got %+v", out)
	}
	if len(out.Items) != 1 || out.Items[0].ItemID != "logs" || out.Items[0].Quantity != 10 {
		t.Fatalf("expected 10 logs, got %+v", out.Items)
	}
	if out.Skill != skill.Woodcutting || out.TimeAway != 30*time.Second {
		t.Fatalf("unexpected summary: %+v", out)
	}
	if c.Skills[skill.Woodcutting].Level != 2 || len(out.LevelUps) != 1 {
		t.Fatalf("expected one level-up to 2, got level %d ups %+v", c.Skills[skill.Woodcutting].Level, out.LevelUps)
	}
	if !c.LastActionTime.Equal(now) || c.Stats.OfflineActions != 10 {
		t.Fatalf("expected last action time advanced and stats bumped")
	}

	again, err := ProcessOfflineProgress(c, fixtureCatalog(), now, game.DefaultTuning())
	if again != nil || !errors.Is(err, game.ErrNoOfflineProgress) {
		t.Fatalf("expected idempotent second call, got %+v %v", again, err)
	}
}

func TestProcessOfflineProgress_ClampsElapsed(t *testing.T) {
	c := woodcutter()
	c.LastActionID = "cut_tree"
	c.LastActionTime = t0
	tuning := game.Tuning{OfflineMaxElapsed: time.Minute}

	out, err := ProcessOfflineProgress(c, fixtureCatalog(), t0.Add(48*time.Hour), tuning)
	if err != nil {
		t.Fatalf("offline error: %v", err)
	}
	if out.ActionsCompleted != 20 || out.TimeAway != time.Minute {
		t.Fatalf("expected 20 completions over one minute, got %+v", out)
	}
}

func TestProcessOfflineProgress_CapsByResources(t *testing.T) {
	c := game.NewCharacter("char-1", "user-1", "Tester", t0)
	c.Bank.Add("raw_shrimp", 3)
	c.LastActionID = "cook_shrimp"
	c.LastActionTime = t0

	out, err := ProcessOfflineProgress(&c, fixtureCatalog(), t0.Add(time.Hour), game.DefaultTuning())
	if err != nil {
		t.Fatalf("offline error: %v", err)
	}
	if out.ActionsCompleted != 3 {
		t.Fatalf("expected 3 completions, got %d", out.ActionsCompleted)
	}
	if len(out.Consumed) != 1 || out.Consumed[0].ItemID != "raw_shrimp" || out.Consumed[0].Quantity != 3 {
		t.Fatalf("expected 3 raw shrimp consumed, got %+v", out.Consumed)
	}
	if c.Bank.Quantity("raw_shrimp") != 0 || c.Bank.Quantity("shrimp") != 3 {
		t.Fatalf("unexpected bank: %+v", c.Bank)
	}
}

func TestProcessOfflineProgress_NoRewardCases(t *testing.T) {
	cat := fixtureCatalog()
	now := t0.Add(time.Hour)
	cases := []struct {
		name     string
		actionID string
		setup    func(c *game.Character)
		want     error
	}{
		{name: "no last action", want: game.ErrNoOfflineProgress},
		{name: "unknown action", actionID: "ghost", want: game.ErrCorruptedCharacterReference},
		{name: "combat", actionID: "fight_goblin", want: game.ErrCombatOffline},
		{name: "requirements", actionID: "cut_tree", setup: func(c *game.Character) {
			c.Equipment = map[game.EquipmentSlot]game.ItemID{}
		}, want: game.ErrRequirementNotMet},
		{name: "too short", actionID: "cut_tree", setup: func(c *game.Character) {
			c.LastActionTime = now.Add(-2 * time.Second)
		}, want: game.ErrNoOfflineProgress},
	}
	for _, tc := range cases {
		c := woodcutter()
		c.LastActionID = tc.actionID
		c.LastActionTime = t0
		if tc.setup != nil {
			tc.setup(c)
		}
		before := c.Clone()
		out, err := ProcessOfflineProgress(c, cat, now, game.DefaultTuning())
		if out != nil || !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected nil/%v, got %+v/%v", tc.name, tc.want, out, err)
		}
		if !c.LastActionTime.Equal(before.LastActionTime) || len(c.Bank) != len(before.Bank) {
			t.Fatalf("%s: expected character untouched", tc.name)
		}
	}
}
