package play

import (
	"context"
	"errors"
	"testing"

	"idlescape/internal/domain/game"
)

func TestManager_SlayerTaskLifecycle(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	resp, err := h.manager.NewSlayerTask(ctx, SlayerRequest{OwnerID: "user-1", Difficulty: game.DifficultyEasy})
	if err != nil {
		t.Fatalf("new task error: %v", err)
	}
	if resp.Task == nil || resp.Task.MonsterID != "goblin" || resp.Task.Remaining != 3 {
		t.Fatalf("unexpected task: %+v", resp.Task)
	}
	if _, err := h.manager.NewSlayerTask(ctx, SlayerRequest{OwnerID: "user-1", Difficulty: game.DifficultyEasy}); !errors.Is(err, game.ErrInvalidTaskState) {
		t.Fatalf("expected ErrInvalidTaskState, got %v", err)
	}
	if _, err := h.manager.CompleteSlayerTask(ctx, "user-1"); !errors.Is(err, game.ErrInvalidTaskState) {
		t.Fatalf("expected unfinished task rejected, got %v", err)
	}

	ls := h.manager.lookup("user-1")
	ls.mu.Lock()
	ls.session.Character().CurrentSlayerTask.Remaining = 0
	ls.mu.Unlock()

	done, err := h.manager.CompleteSlayerTask(ctx, "user-1")
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if done.PointsEarned != 10 || done.SlayerPoints != 10 || done.Streak != 1 || done.Task != nil {
		t.Fatalf("unexpected completion: %+v", done)
	}
	stored := h.repo.get("char-1")
	if stored.SlayerPoints != 10 || stored.CurrentSlayerTask != nil {
		t.Fatalf("expected completion persisted")
	}
	if h.events.count(game.EventSlayerTaskAssigned) != 1 || h.events.count(game.EventSlayerTaskCompleted) != 1 {
		t.Fatalf("expected slayer events")
	}
}

func TestManager_CancelSlayerTaskNeedsPoints(t *testing.T) {
	c := storedWoodcutter("char-1", "user-1")
	c.SlayerPoints = 25
	c.CurrentSlayerTask = &game.SlayerTask{MonsterID: "goblin", MonsterName: "Goblin", Amount: 3, Remaining: 3, Difficulty: game.DifficultyEasy}
	h := newHarness(c)
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	if _, err := h.manager.CancelSlayerTask(ctx, "user-1"); !errors.Is(err, game.ErrInvalidTaskState) {
		t.Fatalf("expected ErrInvalidTaskState, got %v", err)
	}
	stored := h.repo.get("char-1")
	if stored.SlayerPoints != 25 || stored.CurrentSlayerTask == nil {
		t.Fatalf("expected no mutation persisted")
	}
	if _, err := h.manager.NewSlayerTask(ctx, SlayerRequest{OwnerID: "user-1", Difficulty: "legendary"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestManager_FailedSaveRollsBackSlayerCancel(t *testing.T) {
	c := storedWoodcutter("char-1", "user-1")
	c.SlayerPoints = 40
	c.CurrentSlayerTask = &game.SlayerTask{MonsterID: "goblin", MonsterName: "Goblin", Amount: 3, Remaining: 3, Difficulty: game.DifficultyEasy}
	h := newHarness(c)
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	dbDown := errors.New("db down")
	h.repo.failWith(dbDown)
	if _, err := h.manager.CancelSlayerTask(ctx, "user-1"); !errors.Is(err, dbDown) {
		t.Fatalf("expected save error, got %v", err)
	}
	view, err := h.manager.Observe(ctx, "user-1")
	if err != nil {
		t.Fatalf("expected session kept after a non-conflict failure, got %v", err)
	}
	if view.Character.SlayerPoints != 40 || view.Character.CurrentSlayerTask == nil {
		t.Fatalf("expected cancel rolled back, got points=%d task=%+v", view.Character.SlayerPoints, view.Character.CurrentSlayerTask)
	}
	if h.metrics.failures != 1 {
		t.Fatalf("expected failure recorded, got %d", h.metrics.failures)
	}

	h.repo.failWith(nil)
	if _, err := h.manager.Stop(ctx, "user-1"); err != nil {
		t.Fatalf("stop error: %v", err)
	}
	stored := h.repo.get("char-1")
	if stored.SlayerPoints != 40 || stored.CurrentSlayerTask == nil {
		t.Fatalf("expected failed cancel never persisted, got points=%d", stored.SlayerPoints)
	}
	if h.events.count(game.EventSlayerTaskCancelled) != 0 {
		t.Fatalf("expected no cancel event")
	}
}
