package play

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

// Manager hosts one live engine session per owner and persists every
// mutation as a whole character document.
type Manager struct {
	TxManager  ports.TxManager
	Characters ports.CharacterRepository
	Events     ports.EventRepository
	Metrics    ports.EngineMetrics
	Content    game.Content
	Tuning     game.Tuning
	NewRoller  func() game.Roller
	Now        func() time.Time

	// loadMu serialises session open and close; mu guards the map.
	loadMu   sync.Mutex
	mu       sync.Mutex
	sessions map[string]*liveSession
}

type liveSession struct {
	mu      sync.Mutex
	id      string
	ownerID string
	session *engine.Session
	roller  game.Roller
	version int64
	offline *engine.OfflineRewards
	// saved is the session as last persisted.
	saved engine.Checkpoint
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Manager) newRoller() game.Roller {
	if m.NewRoller == nil {
		return game.NewRNG(time.Now().UnixNano())
	}
	return m.NewRoller()
}

// Create stores a fresh character with the catalog starter kit.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (game.Character, error) {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.Name = strings.TrimSpace(req.Name)
	if req.OwnerID == "" || req.Name == "" {
		return game.Character{}, ErrInvalidRequest
	}
	now := m.now()
	c := game.NewCharacter(uuid.NewString(), req.OwnerID, req.Name, now)
	game.ApplyStarterKit(&c, m.Content.StarterKit())
	c.Version = 1
	err := m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return m.Characters.SaveWithVersion(txCtx, c, 0)
	})
	if err != nil {
		m.recordError(err)
		return game.Character{}, err
	}
	return c, nil
}

// Load opens a session for the character, switching away from any other
// character of the same owner. Offline catch-up runs to completion before
// the session becomes visible.
func (m *Manager) Load(ctx context.Context, req LoadRequest) (LoadResponse, error) {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.CharacterID = strings.TrimSpace(req.CharacterID)
	if req.OwnerID == "" || req.CharacterID == "" {
		return LoadResponse{}, ErrInvalidRequest
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if prev := m.lookup(req.OwnerID); prev != nil {
		prev.mu.Lock()
		same := prev.session.Character().ID == req.CharacterID
		prev.mu.Unlock()
		if same {
			return LoadResponse{View: m.view(prev)}, nil
		}
		if err := m.close(ctx, prev); err != nil {
			return LoadResponse{}, err
		}
	}

	now := m.now()
	var (
		ls     *liveSession
		reason error
	)
	err := m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := m.Characters.GetByID(txCtx, req.OwnerID, req.CharacterID)
		if err != nil {
			return err
		}
		c.Normalize()
		expected := c.Version

		offline, offlineErr := engine.ProcessOfflineProgress(&c, m.Content, now, m.Tuning)
		reason = offlineErr
		c.LastLogin = now
		c.UpdatedAt = now
		c.Version = expected + 1
		if err := m.Characters.SaveWithVersion(txCtx, c, expected); err != nil {
			return err
		}
		if offline != nil {
			if err := m.Events.Append(txCtx, c.ID, offlineEvents(c.ID, offline, now)); err != nil {
				return err
			}
		}

		roller := m.newRoller()
		ls = &liveSession{
			id:      uuid.NewString(),
			ownerID: req.OwnerID,
			roller:  roller,
			version: c.Version,
			offline: offline,
		}
		ls.session = engine.NewSession(&c, m.Content, roller, m.Tuning)
		ls.saved = ls.session.Checkpoint()
		return nil
	})
	if err != nil {
		m.recordError(err)
		return LoadResponse{}, err
	}

	if ls.offline != nil {
		if m.Metrics != nil {
			m.Metrics.RecordOffline(ls.offline.ActionsCompleted, ls.offline.TimeAway)
		}
		hlog.CtxInfof(ctx, "character %s loaded: %d offline completions of %s over %s",
			req.CharacterID, ls.offline.ActionsCompleted, ls.offline.ActionID, ls.offline.TimeAway)
	} else {
		hlog.CtxInfof(ctx, "character %s loaded without offline progress: %v", req.CharacterID, reason)
	}

	m.mu.Lock()
	if m.sessions == nil {
		m.sessions = map[string]*liveSession{}
	}
	m.sessions[req.OwnerID] = ls
	m.mu.Unlock()

	resp := LoadResponse{View: m.view(ls)}
	if reason != nil && !errors.Is(reason, game.ErrNoOfflineProgress) {
		resp.OfflineReason = reason.Error()
	}
	return resp, nil
}

// Close detaches the owner's session, saves it and forgets it. The last
// action is kept so the next Load can catch up.
func (m *Manager) Close(ctx context.Context, ownerID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	ls := m.lookup(strings.TrimSpace(ownerID))
	if ls == nil {
		return ErrNoActiveSession
	}
	return m.close(ctx, ls)
}

// CloseAll closes every session, e.g. on shutdown.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	var errs []error
	for _, ls := range m.snapshot() {
		if err := m.close(ctx, ls); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) close(ctx context.Context, ls *liveSession) error {
	ls.session.Cancel()
	ls.mu.Lock()
	defer ls.mu.Unlock()
	m.forget(ls)
	ls.session.Detach()
	return m.persist(ctx, ls, nil)
}

func (m *Manager) lookup(ownerID string) *liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[ownerID]
}

func (m *Manager) forget(ls *liveSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[ls.ownerID] == ls {
		delete(m.sessions, ls.ownerID)
	}
}

func (m *Manager) snapshot() []*liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*liveSession, 0, len(m.sessions))
	for _, ls := range m.sessions {
		out = append(out, ls)
	}
	return out
}

// withSession runs fn on the owner's session under its lock.
func (m *Manager) withSession(ownerID string, fn func(ls *liveSession) error) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrInvalidRequest
	}
	ls := m.lookup(ownerID)
	if ls == nil {
		return ErrNoActiveSession
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return fn(ls)
}

// persist saves the session character with optimistic versioning. A failed
// save rewinds the session to its last persisted state. Callers hold ls.mu.
func (m *Manager) persist(ctx context.Context, ls *liveSession, events []game.DomainEvent) error {
	now := m.now()
	next := ls.session.Snapshot()
	next.UpdatedAt = now
	next.Version = ls.version + 1
	err := m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := m.Characters.SaveWithVersion(txCtx, next, ls.version); err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		return m.Events.Append(txCtx, next.ID, events)
	})
	if err != nil {
		m.recordError(err)
		if errors.Is(err, ports.ErrConflict) {
			// another writer owns the character now
			m.forget(ls)
			hlog.CtxWarnf(ctx, "session %s for character %s evicted after save conflict", ls.id, next.ID)
			return err
		}
		ls.session.Restore(ls.saved)
		hlog.CtxWarnf(ctx, "session %s for character %s rolled back after failed save: %v", ls.id, next.ID, err)
		return err
	}
	ls.version = next.Version
	live := ls.session.Character()
	live.Version = next.Version
	live.UpdatedAt = now
	ls.saved = ls.session.Checkpoint()
	return nil
}

func (m *Manager) recordError(err error) {
	if m.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		m.Metrics.RecordConflict()
		return
	}
	m.Metrics.RecordFailure()
}

func (m *Manager) view(ls *liveSession) View {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return m.viewLocked(ls)
}

func (m *Manager) viewLocked(ls *liveSession) View {
	s := ls.session
	v := View{
		SessionID:        ls.id,
		State:            s.State(),
		Progress:         s.Progress(m.now()),
		MonsterHP:        s.MonsterHP(),
		LastActionReward: s.LastActionReward(),
		LastCombatRound:  s.LastCombatRound(),
		OfflinePending:   ls.offline != nil,
		Character:        s.Snapshot(),
	}
	if a, ok := s.CurrentAction(); ok {
		v.CurrentAction = &a
	}
	return v
}
