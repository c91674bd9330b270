package play

import (
	"context"

	"idlescape/internal/domain/game"
)

func (m *Manager) NewSlayerTask(ctx context.Context, req SlayerRequest) (SlayerResponse, error) {
	if !req.Difficulty.Valid() {
		return SlayerResponse{}, ErrInvalidRequest
	}
	var out SlayerResponse
	err := m.withSession(req.OwnerID, func(ls *liveSession) error {
		c := ls.session.Character()
		task, err := game.NewSlayerTask(c, m.Content, req.Difficulty, ls.roller)
		if err != nil {
			return err
		}
		evt := withCharacter(c.ID, game.DomainEvent{
			Type:       game.EventSlayerTaskAssigned,
			OccurredAt: m.now(),
			Payload: map[string]any{
				"monster_id": task.MonsterID,
				"amount":     task.Amount,
				"difficulty": string(task.Difficulty),
			},
		})
		if err := m.persist(ctx, ls, []game.DomainEvent{evt}); err != nil {
			return err
		}
		out = slayerResponse(c, 0)
		return nil
	})
	return out, err
}

func (m *Manager) CompleteSlayerTask(ctx context.Context, ownerID string) (SlayerResponse, error) {
	var out SlayerResponse
	err := m.withSession(ownerID, func(ls *liveSession) error {
		c := ls.session.Character()
		var monsterID string
		if c.CurrentSlayerTask != nil {
			monsterID = c.CurrentSlayerTask.MonsterID
		}
		points, err := game.CompleteSlayerTask(c)
		if err != nil {
			return err
		}
		evt := withCharacter(c.ID, game.DomainEvent{
			Type:       game.EventSlayerTaskCompleted,
			OccurredAt: m.now(),
			Payload: map[string]any{
				"monster_id": monsterID,
				"points":     points,
				"streak":     c.SlayerTaskStreak,
			},
		})
		if err := m.persist(ctx, ls, []game.DomainEvent{evt}); err != nil {
			return err
		}
		out = slayerResponse(c, points)
		return nil
	})
	return out, err
}

func (m *Manager) CancelSlayerTask(ctx context.Context, ownerID string) (SlayerResponse, error) {
	var out SlayerResponse
	err := m.withSession(ownerID, func(ls *liveSession) error {
		c := ls.session.Character()
		cost := m.Tuning.WithDefaults().SlayerCancelCost
		var monsterID string
		if c.CurrentSlayerTask != nil {
			monsterID = c.CurrentSlayerTask.MonsterID
		}
		if err := game.CancelSlayerTask(c, cost); err != nil {
			return err
		}
		evt := withCharacter(c.ID, game.DomainEvent{
			Type:       game.EventSlayerTaskCancelled,
			OccurredAt: m.now(),
			Payload: map[string]any{
				"monster_id": monsterID,
				"cost":       cost,
			},
		})
		if err := m.persist(ctx, ls, []game.DomainEvent{evt}); err != nil {
			return err
		}
		out = slayerResponse(c, 0)
		return nil
	})
	return out, err
}

func slayerResponse(c *game.Character, earned int) SlayerResponse {
	out := SlayerResponse{
		PointsEarned: earned,
		SlayerPoints: c.SlayerPoints,
		Streak:       c.SlayerTaskStreak,
	}
	if c.CurrentSlayerTask != nil {
		task := *c.CurrentSlayerTask
		out.Task = &task
	}
	return out
}
