package inmemory

import (
	"sync"
	"time"
)

type Snapshot struct {
	Completions       uint64            `json:"completions"`
	CompletionsByAct  map[string]uint64 `json:"completions_by_action"`
	CombatVictories   uint64            `json:"combat_victories"`
	CombatDefeats     uint64            `json:"combat_defeats"`
	KillsByMonster    map[string]uint64 `json:"kills_by_monster"`
	OfflineCatchUps   uint64            `json:"offline_catch_ups"`
	OfflineActions    uint64            `json:"offline_actions"`
	OfflineTimeAwayMS int64             `json:"offline_time_away_ms"`
	SaveConflicts     uint64            `json:"save_conflicts"`
	SaveFailures      uint64            `json:"save_failures"`
}

// Recorder keeps process-local engine counters for /ops/kpi.
type Recorder struct {
	mu          sync.Mutex
	completions uint64
	byAction    map[string]uint64
	victories   uint64
	defeats     uint64
	kills       map[string]uint64
	catchUps    uint64
	offline     uint64
	offlineAway time.Duration
	conflict    uint64
	failure     uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
		kills:    map[string]uint64{},
	}
}

func (r *Recorder) RecordCompletions(actionID string, n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions += uint64(n)
	r.byAction[actionID] += uint64(n)
}

func (r *Recorder) RecordCombat(monsterID string, victory bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !victory {
		r.defeats++
		return
	}
	r.victories++
	r.kills[monsterID]++
}

func (r *Recorder) RecordOffline(completions int, timeAway time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchUps++
	if completions > 0 {
		r.offline += uint64(completions)
	}
	r.offlineAway += timeAway
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Completions:       r.completions,
		CompletionsByAct:  make(map[string]uint64, len(r.byAction)),
		CombatVictories:   r.victories,
		CombatDefeats:     r.defeats,
		KillsByMonster:    make(map[string]uint64, len(r.kills)),
		OfflineCatchUps:   r.catchUps,
		OfflineActions:    r.offline,
		OfflineTimeAwayMS: r.offlineAway.Milliseconds(),
		SaveConflicts:     r.conflict,
		SaveFailures:      r.failure,
	}
	for k, v := range r.byAction {
		out.CompletionsByAct[k] = v
	}
	for k, v := range r.kills {
		out.KillsByMonster[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
