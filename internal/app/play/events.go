package play

import (
	"time"

	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

func withCharacter(characterID string, evt game.DomainEvent) game.DomainEvent {
	if evt.Payload == nil {
		evt.Payload = map[string]any{}
	}
	evt.Payload["character_id"] = characterID
	return evt
}

func offlineEvents(characterID string, r *engine.OfflineRewards, at time.Time) []game.DomainEvent {
	events := []game.DomainEvent{withCharacter(characterID, game.DomainEvent{
		Type:       game.EventOfflineProgress,
		OccurredAt: at,
		Payload: map[string]any{
			"action_id":         r.ActionID,
			"skill":             string(r.Skill),
			"time_away_ms":      r.TimeAway.Milliseconds(),
			"actions_completed": r.ActionsCompleted,
			"experience":        r.Experience,
			"items":             stacksPayload(r.Items),
			"consumed":          stacksPayload(r.Consumed),
		},
	})}
	for _, up := range r.LevelUps {
		events = append(events, withCharacter(characterID, game.LevelUpEvent(up, at)))
	}
	return events
}

func tickEvents(c *game.Character, actionID string, res engine.TickResult, at time.Time) []game.DomainEvent {
	var events []game.DomainEvent
	if res.Completions > 0 {
		events = append(events, withCharacter(c.ID, game.DomainEvent{
			Type:       game.EventActionsCompleted,
			OccurredAt: at,
			Payload: map[string]any{
				"action_id":  actionID,
				"count":      res.Completions,
				"experience": res.Experience,
			},
		}))
	}
	for _, round := range res.Rounds {
		switch round.Result {
		case game.RoundVictory:
			events = append(events, withCharacter(c.ID, game.DomainEvent{
				Type:       game.EventCombatVictory,
				OccurredAt: round.At,
				Payload: map[string]any{
					"monster_id": round.MonsterID,
					"loot":       stacksPayload(round.Loot),
				},
			}))
		case game.RoundDefeat:
			events = append(events, withCharacter(c.ID, game.DomainEvent{
				Type:       game.EventCombatDefeat,
				OccurredAt: round.At,
				Payload:    map[string]any{"monster_id": round.MonsterID},
			}))
		}
	}
	for _, up := range res.LevelUps {
		events = append(events, withCharacter(c.ID, game.LevelUpEvent(up, at)))
	}
	if res.Stopped != nil {
		events = append(events, withCharacter(c.ID, game.DomainEvent{
			Type:       game.EventActionStopped,
			OccurredAt: at,
			Payload: map[string]any{
				"action_id": actionID,
				"reason":    res.Stopped.Error(),
			},
		}))
	}
	return events
}

func stacksPayload(stacks []game.ItemStack) []map[string]any {
	out := make([]map[string]any, 0, len(stacks))
	for _, s := range stacks {
		out = append(out, map[string]any{"item_id": string(s.ItemID), "quantity": s.Quantity})
	}
	return out
}
