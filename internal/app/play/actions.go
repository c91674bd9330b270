package play

import (
	"context"
	"strings"

	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

// Start replaces the current action. Completed cycles of the previous action
// are applied first; a rejected start leaves the session as it was.
func (m *Manager) Start(ctx context.Context, req StartRequest) (View, error) {
	req.ActionID = strings.TrimSpace(req.ActionID)
	if req.ActionID == "" {
		return View{}, ErrInvalidRequest
	}
	var out View
	err := m.withSession(req.OwnerID, func(ls *liveSession) error {
		now := m.now()
		res, events := m.advanceLocked(ls, now)
		if err := ls.session.Start(strings.TrimSpace(req.Location), req.ActionID, now); err != nil {
			if res.Changed() {
				if perr := m.persist(ctx, ls, events); perr != nil {
					return perr
				}
			}
			return err
		}
		c := ls.session.Character()
		events = append(events, game.DomainEvent{
			Type:       game.EventActionStarted,
			OccurredAt: now,
			Payload: map[string]any{
				"character_id": c.ID,
				"action_id":    c.LastActionID,
				"location":     c.LastActionLocation,
			},
		})
		if err := m.persist(ctx, ls, events); err != nil {
			return err
		}
		out = m.viewLocked(ls)
		return nil
	})
	return out, err
}

// Stop interrupts any in-flight tick before taking the session lock, so a
// completion that has not been applied yet is discarded.
func (m *Manager) Stop(ctx context.Context, ownerID string) (View, error) {
	if ls := m.lookup(strings.TrimSpace(ownerID)); ls != nil {
		ls.session.Cancel()
	}
	var out View
	err := m.withSession(ownerID, func(ls *liveSession) error {
		c := ls.session.Character()
		actionID := c.LastActionID
		ls.session.Stop()
		evt := game.DomainEvent{
			Type:       game.EventActionStopped,
			OccurredAt: m.now(),
			Payload: map[string]any{
				"character_id": c.ID,
				"action_id":    actionID,
				"reason":       "stopped",
			},
		}
		if err := m.persist(ctx, ls, []game.DomainEvent{evt}); err != nil {
			return err
		}
		out = m.viewLocked(ls)
		return nil
	})
	return out, err
}

func (m *Manager) Observe(_ context.Context, ownerID string) (View, error) {
	var out View
	err := m.withSession(ownerID, func(ls *liveSession) error {
		out = m.viewLocked(ls)
		return nil
	})
	return out, err
}

// Actions lists catalog actions at location with whether the character
// currently qualifies.
func (m *Manager) Actions(_ context.Context, ownerID, location string) ([]ActionView, error) {
	var out []ActionView
	err := m.withSession(ownerID, func(ls *liveSession) error {
		c := ls.session.Character()
		for _, a := range m.Content.ActionsAt(strings.TrimSpace(location)) {
			v := ActionView{Action: a}
			if r, unmet := game.UnmetRequirement(c, a); unmet {
				v.BlockedBy = r.String()
			} else {
				v.CanPerform = a.Kind.Runnable()
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

// ClaimOffline hands out the offline rewards computed on load exactly once.
func (m *Manager) ClaimOffline(_ context.Context, ownerID string) (*engine.OfflineRewards, error) {
	var out *engine.OfflineRewards
	err := m.withSession(ownerID, func(ls *liveSession) error {
		out = ls.offline
		ls.offline = nil
		return nil
	})
	return out, err
}

// Equip moves an item between the bank and its equipment slot.
func (m *Manager) Equip(ctx context.Context, req EquipRequest) (View, error) {
	var out View
	err := m.withSession(req.OwnerID, func(ls *liveSession) error {
		c := ls.session.Character()
		if req.Unequip {
			if _, ok := game.Unequip(c, req.Slot); !ok {
				return ErrInvalidRequest
			}
		} else {
			if strings.TrimSpace(string(req.ItemID)) == "" {
				return ErrInvalidRequest
			}
			if _, err := game.EquipFromBank(c, m.Content, req.ItemID); err != nil {
				return err
			}
		}
		if err := m.persist(ctx, ls, nil); err != nil {
			return err
		}
		out = m.viewLocked(ls)
		return nil
	})
	return out, err
}
