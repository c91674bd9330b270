package engine

import (
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

// completionRun aggregates a batch of completions of one action.
type completionRun struct {
	Applied    int
	Experience int64
	LevelUps   []skill.LevelUp
	Last       *game.ActionReward
	Err        error
}

// runCompletions applies up to count completions of a, the i-th one stamped
// at from + i*BaseTime. It stops at the first failing completion, keeping what
// was applied, and before any completion once cancelled reports true.
func runCompletions(c *game.Character, a game.Action, from time.Time, count int, cancelled func() bool) completionRun {
	var run completionRun
	for i := 0; i < count; i++ {
		if cancelled != nil && cancelled() {
			break
		}
		at := from.Add(time.Duration(i+1) * a.BaseTime)
		reward, err := game.CompleteAction(c, a, at)
		if err != nil {
			run.Err = err
			break
		}
		run.Applied++
		run.Experience += reward.Experience
		if reward.LevelUp != nil {
			run.LevelUps = append(run.LevelUps, *reward.LevelUp)
		}
		r := reward
		run.Last = &r
	}
	return run
}

// bankDelta splits the difference between two banks into gains and spends.
func bankDelta(before, after game.Bank) (gained, spent []game.ItemStack) {
	diff := map[game.ItemID]int{}
	var order []game.ItemID
	track := func(id game.ItemID) {
		if _, ok := diff[id]; !ok {
			diff[id] = 0
			order = append(order, id)
		}
	}
	for _, s := range after {
		track(s.ItemID)
		diff[s.ItemID] += s.Quantity
	}
	for _, s := range before {
		track(s.ItemID)
		diff[s.ItemID] -= s.Quantity
	}
	for _, id := range order {
		switch d := diff[id]; {
		case d > 0:
			gained = append(gained, game.ItemStack{ItemID: id, Quantity: d})
		case d < 0:
			spent = append(spent, game.ItemStack{ItemID: id, Quantity: -d})
		}
	}
	return gained, spent
}
