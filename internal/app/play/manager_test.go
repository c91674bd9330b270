package play

import (
	"context"
	"errors"
	"testing"
	"time"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/engine"
	"idlescape/internal/domain/game"
)

func TestManager_LoadRunsOfflineCatchUpOnce(t *testing.T) {
	c := storedWoodcutter("char-1", "user-1")
	c.LastActionID = "cut_tree"
	c.LastActionLocation = "lumbridge"
	h := newHarness(c)
	h.clock.Advance(30 * time.Second)
	ctx := context.Background()

	resp, err := h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !resp.View.OfflinePending || resp.View.State != engine.StateIdle {
		t.Fatalf("unexpected view: %+v", resp.View)
	}
	stored := h.repo.get("char-1")
	if stored.Bank.Quantity("logs") != 10 || stored.Version != 2 || !stored.LastLogin.Equal(h.clock.Now()) {
		t.Fatalf("unexpected stored character: logs=%d version=%d", stored.Bank.Quantity("logs"), stored.Version)
	}
	if h.events.count(game.EventOfflineProgress) != 1 || h.metrics.offline != 10 {
		t.Fatalf("expected offline event and metrics")
	}

	first, err := h.manager.ClaimOffline(ctx, "user-1")
	if err != nil || first == nil || first.ActionsCompleted != 10 || first.Experience != 250 {
		t.Fatalf("expected offline rewards, got %+v %v", first, err)
	}
	second, err := h.manager.ClaimOffline(ctx, "user-1")
	if err != nil || second != nil {
		t.Fatalf("expected rewards to be consumed once, got %+v %v", second, err)
	}
}

func TestManager_LoadReportsOfflineReason(t *testing.T) {
	c := storedWoodcutter("char-1", "user-1")
	c.LastActionID = "burn_everything"
	h := newHarness(c)

	resp, err := h.manager.Load(context.Background(), LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})
	if err != nil {
		t.Fatalf("expected corrupted reference not to block login, got %v", err)
	}
	if resp.OfflineReason != game.ErrCorruptedCharacterReference.Error() {
		t.Fatalf("unexpected reason: %q", resp.OfflineReason)
	}
}

func TestManager_LoadScopesByOwner(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	_, err := h.manager.Load(context.Background(), LoadRequest{OwnerID: "user-2", CharacterID: "char-1"})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := h.manager.Load(context.Background(), LoadRequest{OwnerID: "user-1"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestManager_StartAndTickPersistCompletions(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	if _, err := h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"}); err != nil {
		t.Fatalf("load error: %v", err)
	}
	view, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", Location: "lumbridge", ActionID: "cut_tree"})
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	if view.State != engine.StateAction || view.CurrentAction == nil || view.CurrentAction.ID != "cut_tree" {
		t.Fatalf("unexpected view: %+v", view)
	}

	h.clock.Advance(7 * time.Second)
	report, err := h.manager.Tick(ctx)
	if err != nil {
		t.Fatalf("tick error: %v", err)
	}
	if report.Completions != 2 || report.Saved != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	stored := h.repo.get("char-1")
	if stored.Bank.Quantity("logs") != 2 || stored.LastActionID != "cut_tree" {
		t.Fatalf("unexpected stored character: %+v", stored.Bank)
	}
	if h.events.count(game.EventActionsCompleted) != 1 || h.metrics.completions != 2 {
		t.Fatalf("expected completion event and metrics")
	}

	report, err = h.manager.Tick(ctx)
	if err != nil || report.Saved != 0 {
		t.Fatalf("expected idle tick to save nothing, got %+v %v", report, err)
	}
}

func TestManager_StartRejectionKeepsSessionIdle(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	_, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_oak"})
	var reqErr *game.RequirementError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequirementError, got %v", err)
	}
	view, _ := h.manager.Observe(ctx, "user-1")
	if view.State != engine.StateIdle || view.Character.LastActionID != "" {
		t.Fatalf("expected untouched idle session, got %+v", view)
	}
	if _, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-9", ActionID: "cut_tree"}); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestManager_StopClearsLastActionCloseKeepsIt(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})
	_, _ = h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"})

	if _, err := h.manager.Stop(ctx, "user-1"); err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if got := h.repo.get("char-1").LastActionID; got != "" {
		t.Fatalf("expected stop to clear last action, got %q", got)
	}

	_, _ = h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"})
	if err := h.manager.Close(ctx, "user-1"); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if got := h.repo.get("char-1").LastActionID; got != "cut_tree" {
		t.Fatalf("expected close to keep last action, got %q", got)
	}
	if _, err := h.manager.Observe(ctx, "user-1"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected closed session, got %v", err)
	}
}

func TestManager_LoadSwitchesCharacter(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"), storedWoodcutter("char-2", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})
	_, _ = h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"})
	h.clock.Advance(time.Second)

	resp, err := h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-2"})
	if err != nil {
		t.Fatalf("switch error: %v", err)
	}
	if resp.View.Character.ID != "char-2" {
		t.Fatalf("expected char-2 session, got %s", resp.View.Character.ID)
	}
	if got := h.repo.get("char-1").LastActionID; got != "cut_tree" {
		t.Fatalf("expected switched-away character to keep its last action, got %q", got)
	}
}

func TestManager_ConflictEvictsSession(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	other := h.repo.get("char-1")
	other.Version++
	h.repo.byID["char-1"] = other

	_, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if h.metrics.conflicts != 1 {
		t.Fatalf("expected conflict recorded, got %d", h.metrics.conflicts)
	}
	if _, err := h.manager.Observe(ctx, "user-1"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected evicted session, got %v", err)
	}
}

func TestManager_CreateAppliesStarterKit(t *testing.T) {
	h := newHarness()
	c, err := h.manager.Create(context.Background(), CreateRequest{OwnerID: "user-1", Name: "Fresh"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	stored := h.repo.get(c.ID)
	if stored.Equipped(game.SlotWeapon) != "bronze_axe" || stored.Bank.Quantity("coins") != 25 || stored.Version != 1 {
		t.Fatalf("unexpected created character: %+v", stored)
	}
	if _, err := h.manager.Create(context.Background(), CreateRequest{OwnerID: "user-1"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestManager_ActionsReportsBlockers(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	views, err := h.manager.Actions(ctx, "user-1", "lumbridge")
	if err != nil {
		t.Fatalf("actions error: %v", err)
	}
	byID := map[string]ActionView{}
	for _, v := range views {
		byID[v.Action.ID] = v
	}
	if !byID["cut_tree"].CanPerform || byID["cut_oak"].CanPerform || byID["cut_oak"].BlockedBy == "" {
		t.Fatalf("unexpected action views: %+v", byID)
	}
}

func TestManager_CloseAll(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"), storedWoodcutter("char-2", "user-2"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-2", CharacterID: "char-2"})
	if err := h.manager.CloseAll(ctx); err != nil {
		t.Fatalf("close all error: %v", err)
	}
	report, _ := h.manager.Tick(ctx)
	if report.Sessions != 0 {
		t.Fatalf("expected no sessions after close all, got %d", report.Sessions)
	}
}

func TestManager_EquipSwapsThroughBank(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	view, err := h.manager.Equip(ctx, EquipRequest{OwnerID: "user-1", Unequip: true, Slot: game.SlotWeapon})
	if err != nil {
		t.Fatalf("unequip error: %v", err)
	}
	if view.Character.Equipped(game.SlotWeapon) != "" || view.Character.Bank.Quantity("bronze_axe") != 1 {
		t.Fatalf("expected axe banked, got %+v", view.Character.Equipment)
	}
	if _, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"}); err == nil {
		t.Fatalf("expected cut_tree to need the axe equipped")
	}

	if _, err := h.manager.Equip(ctx, EquipRequest{OwnerID: "user-1", ItemID: "bronze_axe"}); err != nil {
		t.Fatalf("equip error: %v", err)
	}
	stored := h.repo.get("char-1")
	if stored.Equipped(game.SlotWeapon) != "bronze_axe" || stored.Bank.Quantity("bronze_axe") != 0 {
		t.Fatalf("expected equip persisted, got %+v", stored.Equipment)
	}
	if _, err := h.manager.Equip(ctx, EquipRequest{OwnerID: "user-1", ItemID: "logs"}); !errors.Is(err, game.ErrNotEquippable) {
		t.Fatalf("expected ErrNotEquippable, got %v", err)
	}
	if _, err := h.manager.Equip(ctx, EquipRequest{OwnerID: "user-1", Unequip: true, Slot: game.SlotShield}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestManager_FailedSaveRollsBackStartAndTick(t *testing.T) {
	h := newHarness(storedWoodcutter("char-1", "user-1"))
	ctx := context.Background()
	_, _ = h.manager.Load(ctx, LoadRequest{OwnerID: "user-1", CharacterID: "char-1"})

	dbDown := errors.New("db down")
	h.repo.failWith(dbDown)
	if _, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"}); !errors.Is(err, dbDown) {
		t.Fatalf("expected save error, got %v", err)
	}
	view, _ := h.manager.Observe(ctx, "user-1")
	if view.State != engine.StateIdle || view.Character.LastActionID != "" {
		t.Fatalf("expected failed start rolled back, got %+v", view)
	}

	h.repo.failWith(nil)
	if _, err := h.manager.Start(ctx, StartRequest{OwnerID: "user-1", ActionID: "cut_tree"}); err != nil {
		t.Fatalf("start error: %v", err)
	}
	h.clock.Advance(7 * time.Second)
	h.repo.failWith(dbDown)
	if _, err := h.manager.Tick(ctx); !errors.Is(err, dbDown) {
		t.Fatalf("expected tick save error, got %v", err)
	}
	view, _ = h.manager.Observe(ctx, "user-1")
	if view.Character.Bank.Quantity("logs") != 0 || view.State != engine.StateAction {
		t.Fatalf("expected unsaved completions rolled back with the action still running, got logs=%d state=%s",
			view.Character.Bank.Quantity("logs"), view.State)
	}

	h.repo.failWith(nil)
	report, err := h.manager.Tick(ctx)
	if err != nil || report.Completions != 2 || report.Saved != 1 {
		t.Fatalf("expected completions replayed on the next tick, got %+v %v", report, err)
	}
	if got := h.repo.get("char-1").Bank.Quantity("logs"); got != 2 {
		t.Fatalf("expected 2 logs stored, got %d", got)
	}
	if h.events.count(game.EventActionsCompleted) != 1 {
		t.Fatalf("expected one completion event")
	}
}
