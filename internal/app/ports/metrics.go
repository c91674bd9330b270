package ports

import "time"

type EngineMetrics interface {
	RecordCompletions(actionID string, n int)
	RecordCombat(monsterID string, victory bool)
	RecordOffline(completions int, timeAway time.Duration)
	RecordConflict()
	RecordFailure()
}
