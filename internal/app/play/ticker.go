package play

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

// advanceLocked steps the session to now and returns what happened with the
// events to persist. Callers hold ls.mu.
func (m *Manager) advanceLocked(ls *liveSession, now time.Time) (engine.TickResult, []game.DomainEvent) {
	actionID := ""
	if a, ok := ls.session.CurrentAction(); ok {
		actionID = a.ID
	}
	res := ls.session.Advance(now)
	if !res.Changed() {
		return res, nil
	}
	if m.Metrics != nil {
		if res.Completions > 0 {
			m.Metrics.RecordCompletions(actionID, res.Completions)
		}
		for _, r := range res.Rounds {
			if r.Result != game.RoundContinue {
				m.Metrics.RecordCombat(r.MonsterID, r.Result == game.RoundVictory)
			}
		}
	}
	return res, tickEvents(ls.session.Character(), actionID, res, now)
}

// Tick advances every live session to Now and saves those that changed.
func (m *Manager) Tick(ctx context.Context) (TickReport, error) {
	now := m.now()
	sessions := m.snapshot()
	report := TickReport{Sessions: len(sessions)}
	var errs []error
	for _, ls := range sessions {
		ls.mu.Lock()
		res, events := m.advanceLocked(ls, now)
		if !res.Changed() {
			ls.mu.Unlock()
			continue
		}
		report.Completions += res.Completions
		report.Rounds += len(res.Rounds)
		err := m.persist(ctx, ls, events)
		ls.mu.Unlock()
		switch {
		case err == nil:
			report.Saved++
		case errors.Is(err, ports.ErrConflict):
			report.Evicted++
			errs = append(errs, err)
		default:
			hlog.CtxWarnf(ctx, "tick save failed for session %s: %v", ls.id, err)
			errs = append(errs, err)
		}
	}
	return report, errors.Join(errs...)
}

// Run ticks every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Tick(ctx); err != nil && ctx.Err() == nil {
				hlog.CtxWarnf(ctx, "tick: %v", err)
			}
		}
	}
}
