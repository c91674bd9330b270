package engine

import (
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

// OfflineRewards summarises the catch-up applied on load.
type OfflineRewards struct {
	ActionID         string           `json:"action_id"`
	ActionName       string           `json:"action_name"`
	Skill            skill.Name       `json:"skill"`
	TimeAway         time.Duration    `json:"time_away"`
	ActionsCompleted int              `json:"actions_completed"`
	Experience       int64            `json:"experience"`
	Items            []game.ItemStack `json:"items,omitempty"`
	Consumed         []game.ItemStack `json:"consumed,omitempty"`
	LevelUps         []skill.LevelUp  `json:"level_ups,omitempty"`
	StoppedBy        string           `json:"stopped_by,omitempty"`
}

// ProcessOfflineProgress replays the completions of the character's last
// action that fit between LastActionTime and now. Characters that earned
// nothing get a nil result and the reason; otherwise LastActionTime moves to
// now so a second call yields nothing.
func ProcessOfflineProgress(c *game.Character, content game.Content, now time.Time, tuning game.Tuning) (*OfflineRewards, error) {
	tuning = tuning.WithDefaults()
	if c.LastActionID == "" {
		return nil, game.ErrNoOfflineProgress
	}
	a, ok := content.ActionAt(c.LastActionLocation, c.LastActionID)
	if !ok {
		return nil, game.ErrCorruptedCharacterReference
	}
	if a.IsCombat() {
		return nil, game.ErrCombatOffline
	}
	if !a.Kind.Runnable() || a.BaseTime <= 0 {
		return nil, game.ErrActionNotRunnable
	}
	if err := game.CheckRequirements(c, a); err != nil {
		return nil, err
	}

	elapsed := now.Sub(c.LastActionTime)
	if elapsed > tuning.OfflineMaxElapsed {
		elapsed = tuning.OfflineMaxElapsed
	}
	count := int(elapsed / a.BaseTime)
	if limit := game.MaxAffordable(c, a); limit >= 0 && count > limit {
		count = limit
	}
	if count < 1 {
		return nil, game.ErrNoOfflineProgress
	}

	before := c.Bank.Clone()
	run := runCompletions(c, a, now.Add(-elapsed), count, nil)
	if run.Applied == 0 {
		if run.Err != nil {
			return nil, run.Err
		}
		return nil, game.ErrNoOfflineProgress
	}
	c.LastActionTime = now
	c.Stats.OfflineActions += int64(run.Applied)

	gained, spent := bankDelta(before, c.Bank)
	out := &OfflineRewards{
		ActionID:         a.ID,
		ActionName:       a.Name,
		Skill:            a.Skill,
		TimeAway:         elapsed,
		ActionsCompleted: run.Applied,
		Experience:       run.Experience,
		Items:            gained,
		Consumed:         spent,
		LevelUps:         run.LevelUps,
	}
	if run.Err != nil {
		out.StoppedBy = run.Err.Error()
	}
	return out, nil
}
