package game

import (
	"time"

	"idlescape/internal/domain/skill"
)

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventActionStarted       = "action_started"
	EventActionStopped       = "action_stopped"
	EventActionsCompleted    = "actions_completed"
	EventLevelUp             = "level_up"
	EventCombatVictory       = "combat_victory"
	EventCombatDefeat        = "combat_defeat"
	EventOfflineProgress     = "offline_progress"
	EventSlayerTaskAssigned  = "slayer_task_assigned"
	EventSlayerTaskCompleted = "slayer_task_completed"
	EventSlayerTaskCancelled = "slayer_task_cancelled"
)

func LevelUpEvent(up skill.LevelUp, at time.Time) DomainEvent {
	return DomainEvent{
		Type:       EventLevelUp,
		OccurredAt: at,
		Payload: map[string]any{
			"skill": string(up.Skill),
			"level": up.Level,
		},
	}
}
