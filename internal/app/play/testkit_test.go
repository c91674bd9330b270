package play

import (
	"context"
	"sync"
	"time"

	"idlescape/internal/app/ports"
	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubCharacterRepo struct {
	mu    sync.Mutex
	byID  map[string]game.Character
	saves int
	// failSaves makes SaveWithVersion return it without storing anything.
	failSaves error
}

func (r *stubCharacterRepo) failWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSaves = err
}

func newStubCharacterRepo(cs ...game.Character) *stubCharacterRepo {
	r := &stubCharacterRepo{byID: map[string]game.Character{}}
	for _, c := range cs {
		r.byID[c.ID] = c.Clone()
	}
	return r
}

func (r *stubCharacterRepo) GetByID(_ context.Context, ownerID, characterID string) (game.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[characterID]
	if !ok || c.OwnerID != ownerID {
		return game.Character{}, ports.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *stubCharacterRepo) SaveWithVersion(_ context.Context, c game.Character, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSaves != nil {
		return r.failSaves
	}
	current, ok := r.byID[c.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[c.ID] = c.Clone()
	r.saves++
	return nil
}

func (r *stubCharacterRepo) get(id string) game.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Clone()
}

type stubEventRepo struct {
	mu     sync.Mutex
	events []game.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []game.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByCharacterID(_ context.Context, _ string, _ int) ([]game.DomainEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.DomainEvent(nil), r.events...), nil
}

func (r *stubEventRepo) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type stubMetrics struct {
	completions int
	victories   int
	offline     int
	conflicts   int
	failures    int
}

func (m *stubMetrics) RecordCompletions(_ string, n int) {
	m.completions += n
}

func (m *stubMetrics) RecordCombat(_ string, victory bool) {
	if victory {
		m.victories++
	}
}

func (m *stubMetrics) RecordOffline(n int, _ time.Duration) {
	m.offline += n
}

func (m *stubMetrics) RecordConflict() {
	m.conflicts++
}

func (m *stubMetrics) RecordFailure() {
	m.failures++
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fixtureCatalog() *game.Catalog {
	c := game.NewCatalog()
	c.Locations["lumbridge"] = game.Location{ID: "lumbridge", Name: "Lumbridge", Actions: []string{"cut_tree", "cut_oak", "fight_goblin"}}
	c.Items["bronze_axe"] = game.Item{ID: "bronze_axe", Name: "Bronze axe", Slot: game.SlotWeapon}
	c.Actions["cut_tree"] = game.Action{
		ID:           "cut_tree",
		Name:         "Cut Tree",
		Kind:         game.ActionGather,
		Location:     "lumbridge",
		Skill:        skill.Woodcutting,
		Experience:   25,
		BaseTime:     3 * time.Second,
		ItemReward:   &game.ItemStack{ItemID: "logs", Quantity: 1},
		Requirements: []game.Requirement{game.EquipmentRequirement("bronze_axe")},
	}
	c.Actions["cut_oak"] = game.Action{
		ID:            "cut_oak",
		Name:          "Cut Oak",
		Kind:          game.ActionGather,
		Location:      "lumbridge",
		Skill:         skill.Woodcutting,
		LevelRequired: 15,
		Experience:    37,
		BaseTime:      4 * time.Second,
		ItemReward:    &game.ItemStack{ItemID: "oak_logs", Quantity: 1},
	}
	c.Actions["fight_goblin"] = game.Action{ID: "fight_goblin", Name: "Fight Goblin", Kind: game.ActionCombat, Location: "lumbridge", MonsterID: "goblin"}
	c.Monsters["goblin"] = game.Monster{
		ID:        "goblin",
		Name:      "Goblin",
		Hitpoints: 5,
		Stats:     game.MonsterStats{Attack: 1, Strength: 1, Defence: 1},
	}
	c.SlayerPools[game.DifficultyEasy] = []game.SlayerAssignment{{MonsterID: "goblin", MinAmount: 3, MaxAmount: 3}}
	c.Starter = game.StarterKit{
		Bank:      []game.ItemStack{{ItemID: "coins", Quantity: 25}},
		Equipment: map[game.EquipmentSlot]game.ItemID{game.SlotWeapon: "bronze_axe"},
	}
	return c
}

func storedWoodcutter(id, owner string) game.Character {
	c := game.NewCharacter(id, owner, "Tester", t0)
	c.Equip("bronze_axe", game.SlotWeapon)
	c.Version = 1
	return c
}

type harness struct {
	manager *Manager
	repo    *stubCharacterRepo
	events  *stubEventRepo
	metrics *stubMetrics
	clock   *fakeClock
}

func newHarness(cs ...game.Character) *harness {
	h := &harness{
		repo:    newStubCharacterRepo(cs...),
		events:  &stubEventRepo{},
		metrics: &stubMetrics{},
		clock:   &fakeClock{now: t0},
	}
	h.manager = &Manager{
		TxManager:  stubTxManager{},
		Characters: h.repo,
		Events:     h.events,
		Metrics:    h.metrics,
		Content:    fixtureCatalog(),
		Tuning:     game.DefaultTuning(),
		NewRoller:  func() game.Roller { return game.NewRNG(7) },
		Now:        h.clock.Now,
	}
	return h
}
