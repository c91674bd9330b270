package game

import (
	"fmt"
	"sort"
)

// Content is the read-only view of the static catalogs the engine consumes.
type Content interface {
	Action(id string) (Action, bool)
	ActionAt(location, id string) (Action, bool)
	Monster(id string) (Monster, bool)
	Item(id ItemID) (Item, bool)
	SlayerPool(d Difficulty) []SlayerAssignment
	ActionsAt(location string) []Action
	StarterKit() StarterKit
}

// StarterKit is granted to newly created characters.
type StarterKit struct {
	Bank      []ItemStack
	Equipment map[EquipmentSlot]ItemID
}

// Catalog is the in-memory content bundle. It is built once at startup and
// never mutated afterwards.
type Catalog struct {
	Actions     map[string]Action
	Locations   map[string]Location
	Monsters    map[string]Monster
	Items       map[ItemID]Item
	SlayerPools map[Difficulty][]SlayerAssignment
	Starter     StarterKit
}

func NewCatalog() *Catalog {
	return &Catalog{
		Actions:     map[string]Action{},
		Locations:   map[string]Location{},
		Monsters:    map[string]Monster{},
		Items:       map[ItemID]Item{},
		SlayerPools: map[Difficulty][]SlayerAssignment{},
	}
}

func (c *Catalog) Action(id string) (Action, bool) {
	a, ok := c.Actions[id]
	return a, ok
}

// ActionAt resolves an action only when it is offered at location.
// An empty location falls back to the action's own location.
func (c *Catalog) ActionAt(location, id string) (Action, bool) {
	a, ok := c.Actions[id]
	if !ok {
		return Action{}, false
	}
	if location == "" || location == a.Location {
		return a, true
	}
	loc, ok := c.Locations[location]
	if !ok {
		return Action{}, false
	}
	for _, candidate := range loc.Actions {
		if candidate == id {
			return a, true
		}
	}
	return Action{}, false
}

func (c *Catalog) Monster(id string) (Monster, bool) {
	m, ok := c.Monsters[id]
	return m, ok
}

func (c *Catalog) Item(id ItemID) (Item, bool) {
	it, ok := c.Items[id]
	return it, ok
}

func (c *Catalog) SlayerPool(d Difficulty) []SlayerAssignment {
	return c.SlayerPools[d]
}

func (c *Catalog) StarterKit() StarterKit {
	return c.Starter
}

// ActionsAt lists the actions offered at location, or every action when
// location is empty.
func (c *Catalog) ActionsAt(location string) []Action {
	all := c.SortedActions()
	if location == "" {
		return all
	}
	out := make([]Action, 0, len(all))
	for _, a := range all {
		if _, ok := c.ActionAt(location, a.ID); ok {
			out = append(out, a)
		}
	}
	return out
}

// SortedActions lists actions ordered by location then id.
func (c *Catalog) SortedActions() []Action {
	out := make([]Action, 0, len(c.Actions))
	for _, a := range c.Actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ResolveEquipmentSlots pins every equipment requirement to the slot its item
// occupies, so requirements agree with EquipFromBank.
func (c *Catalog) ResolveEquipmentSlots() error {
	for id, a := range c.Actions {
		for i, r := range a.Requirements {
			if r.Kind != RequirementEquipment || r.Slot != "" {
				continue
			}
			slot, ok := SlotOf(c, r.ItemID)
			if !ok {
				return fmt.Errorf("%w: action %s requires unequippable item %q", ErrInvalidCatalog, id, r.ItemID)
			}
			a.Requirements[i].Slot = slot
		}
		c.Actions[id] = a
	}
	return nil
}

// Validate checks cross references and the disjointness of slayer pools.
func (c *Catalog) Validate() error {
	for id, a := range c.Actions {
		if !a.Kind.Valid() {
			return fmt.Errorf("%w: action %s has unknown kind %q", ErrInvalidCatalog, id, a.Kind)
		}
		if a.Kind.Runnable() && a.Kind != ActionCombat && a.BaseTime <= 0 {
			return fmt.Errorf("%w: action %s needs a positive base time", ErrInvalidCatalog, id)
		}
		if a.Kind == ActionCombat {
			if _, ok := c.Monsters[a.MonsterID]; !ok {
				return fmt.Errorf("%w: action %s references unknown monster %q", ErrInvalidCatalog, id, a.MonsterID)
			}
		}
		if a.ItemReward != nil && a.ItemReward.Quantity <= 0 {
			return fmt.Errorf("%w: action %s has a non-positive reward", ErrInvalidCatalog, id)
		}
		if a.Location != "" {
			if _, ok := c.Locations[a.Location]; !ok {
				return fmt.Errorf("%w: action %s references unknown location %q", ErrInvalidCatalog, id, a.Location)
			}
		}
	}
	for id, m := range c.Monsters {
		if m.Hitpoints <= 0 {
			return fmt.Errorf("%w: monster %s needs hitpoints", ErrInvalidCatalog, id)
		}
		for _, d := range m.Drops {
			if d.Chance < 0 || d.Chance > 100 {
				return fmt.Errorf("%w: monster %s drop %s chance out of range", ErrInvalidCatalog, id, d.ItemID)
			}
		}
	}
	for slot, id := range c.Starter.Equipment {
		if _, ok := c.Items[id]; !ok {
			return fmt.Errorf("%w: starter %s references unknown item %q", ErrInvalidCatalog, slot, id)
		}
	}
	seen := map[string]Difficulty{}
	for d, pool := range c.SlayerPools {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown slayer difficulty %q", ErrInvalidCatalog, d)
		}
		for _, entry := range pool {
			if _, ok := c.Monsters[entry.MonsterID]; !ok {
				return fmt.Errorf("%w: slayer pool %s references unknown monster %q", ErrInvalidCatalog, d, entry.MonsterID)
			}
			if prev, dup := seen[entry.MonsterID]; dup {
				return fmt.Errorf("%w: monster %s appears in slayer pools %s and %s", ErrInvalidCatalog, entry.MonsterID, prev, d)
			}
			if entry.MinAmount <= 0 || entry.MaxAmount < entry.MinAmount {
				return fmt.Errorf("%w: slayer pool %s has a bad amount range for %s", ErrInvalidCatalog, d, entry.MonsterID)
			}
			seen[entry.MonsterID] = d
		}
	}
	return nil
}
