package luacontent

import (
	"fmt"
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"

	lua "github.com/yuin/gopher-lua"
)

func compile(coll *collector) (*game.Catalog, error) {
	c := game.NewCatalog()

	for _, d := range coll.locations {
		if _, dup := c.Locations[d.id]; dup {
			return nil, declError(d, "duplicate location")
		}
		c.Locations[d.id] = game.Location{
			ID:      d.id,
			Name:    nameOr(d),
			Actions: stringList(getTable(d.table, "actions")),
		}
	}

	for _, d := range coll.items {
		id := game.ItemID(d.id)
		if _, dup := c.Items[id]; dup {
			return nil, declError(d, "duplicate item")
		}
		it, err := compileItem(d)
		if err != nil {
			return nil, err
		}
		c.Items[id] = it
	}

	for _, d := range coll.monsters {
		if _, dup := c.Monsters[d.id]; dup {
			return nil, declError(d, "duplicate monster")
		}
		m, err := compileMonster(d)
		if err != nil {
			return nil, err
		}
		c.Monsters[d.id] = m
	}

	for _, d := range coll.actions {
		if _, dup := c.Actions[d.id]; dup {
			return nil, declError(d, "duplicate action")
		}
		a, err := compileAction(d)
		if err != nil {
			return nil, err
		}
		c.Actions[d.id] = a
		// an action is offered at its home location and every also_at entry
		for _, locID := range append([]string{a.Location}, stringList(getTable(d.table, "also_at"))...) {
			loc, ok := c.Locations[locID]
			if !ok {
				return nil, declError(d, fmt.Sprintf("unknown location %q", locID))
			}
			if !contains(loc.Actions, a.ID) {
				loc.Actions = append(loc.Actions, a.ID)
				c.Locations[locID] = loc
			}
		}
	}

	for _, d := range coll.pools {
		diff := game.Difficulty(d.id)
		if _, dup := c.SlayerPools[diff]; dup {
			return nil, declError(d, "duplicate slayer pool")
		}
		var pool []game.SlayerAssignment
		var bad error
		forEachTable(d.table, func(entry *lua.LTable) {
			lo := getInt(entry, "min")
			hi := getInt(entry, "max")
			if hi == 0 {
				hi = lo
			}
			monster := getString(entry, "monster")
			if monster == "" && bad == nil {
				bad = declError(d, "pool entry without monster")
			}
			pool = append(pool, game.SlayerAssignment{MonsterID: monster, MinAmount: lo, MaxAmount: hi})
		})
		if bad != nil {
			return nil, bad
		}
		c.SlayerPools[diff] = pool
	}

	if coll.starter != nil {
		c.Starter = game.StarterKit{
			Bank:      stacks(getTable(coll.starter, "bank")),
			Equipment: map[game.EquipmentSlot]game.ItemID{},
		}
		if eq := getTable(coll.starter, "equipment"); eq != nil {
			eq.ForEach(func(k, v lua.LValue) {
				slot, ok1 := k.(lua.LString)
				item, ok2 := v.(lua.LString)
				if ok1 && ok2 {
					c.Starter.Equipment[game.EquipmentSlot(slot)] = game.ItemID(item)
				}
			})
		}
	}
	return c, nil
}

func compileItem(d rawDecl) (game.Item, error) {
	style := game.AttackStyle(getString(d.table, "style"))
	if style != "" && !style.Valid() {
		return game.Item{}, declError(d, fmt.Sprintf("unknown attack style %q", style))
	}
	it := game.Item{
		ID:          game.ItemID(d.id),
		Name:        nameOr(d),
		Slot:        game.EquipmentSlot(getString(d.table, "slot")),
		Style:       style,
		AttackSpeed: millis(d.table, "attack_speed_ms"),
		Value:       getInt(d.table, "value"),
	}
	if b := getTable(d.table, "bonuses"); b != nil {
		it.Bonuses = game.EquipmentBonuses{
			Attack:   styleMap(getTable(b, "attack")),
			Defence:  styleMap(getTable(b, "defence")),
			Strength: getInt(b, "strength"),
			Prayer:   getInt(b, "prayer"),
		}
	}
	return it, nil
}

func compileMonster(d rawDecl) (game.Monster, error) {
	style := game.AttackStyle(getString(d.table, "attack_style"))
	if style == "" {
		style = game.StyleCrush
	}
	if !style.Valid() {
		return game.Monster{}, declError(d, fmt.Sprintf("unknown attack style %q", style))
	}
	m := game.Monster{
		ID:          d.id,
		Name:        nameOr(d),
		CombatLevel: getInt(d.table, "combat_level"),
		Hitpoints:   getInt(d.table, "hitpoints"),
		AttackStyle: style,
		AttackSpeed: millis(d.table, "attack_speed_ms"),
		Experience:  int64(getInt(d.table, "experience")),
	}
	if s := getTable(d.table, "stats"); s != nil {
		m.Stats = game.MonsterStats{
			Attack:         getInt(s, "attack"),
			Strength:       getInt(s, "strength"),
			Defence:        getInt(s, "defence"),
			AttackBonus:    getInt(s, "attack_bonus"),
			StrengthBonus:  getInt(s, "strength_bonus"),
			DefenceBonuses: styleMap(getTable(s, "defence_bonuses")),
		}
	}
	forEachTable(getTable(d.table, "drops"), func(drop *lua.LTable) {
		m.Drops = append(m.Drops, game.Drop{
			ItemID:   game.ItemID(getString(drop, "item")),
			Quantity: max(getInt(drop, "quantity"), 1),
			Chance:   getNumber(drop, "chance"),
		})
	})
	return m, nil
}

func compileAction(d rawDecl) (game.Action, error) {
	kind := game.ActionKind(getString(d.table, "kind"))
	if !kind.Valid() {
		return game.Action{}, declError(d, fmt.Sprintf("unknown kind %q", kind))
	}
	a := game.Action{
		ID:            d.id,
		Name:          nameOr(d),
		Kind:          kind,
		Location:      getString(d.table, "location"),
		Skill:         skill.Name(getString(d.table, "skill")),
		LevelRequired: getInt(d.table, "level"),
		Experience:    int64(getInt(d.table, "experience")),
		BaseTime:      millis(d.table, "base_time_ms"),
		MonsterID:     getString(d.table, "monster"),
	}
	if a.Location == "" {
		return game.Action{}, declError(d, "missing location")
	}
	if a.Skill != "" && !a.Skill.Valid() {
		return game.Action{}, declError(d, fmt.Sprintf("unknown skill %q", a.Skill))
	}
	if r := getTable(d.table, "reward"); r != nil {
		s := stack(r)
		a.ItemReward = &s
	}
	var bad error
	forEachTable(getTable(d.table, "requires"), func(req *lua.LTable) {
		r, err := requirement(req)
		if err != nil && bad == nil {
			bad = declError(d, err.Error())
		}
		a.Requirements = append(a.Requirements, r)
	})
	if bad != nil {
		return game.Action{}, bad
	}
	return a, nil
}

func requirement(tbl *lua.LTable) (game.Requirement, error) {
	switch game.RequirementKind(getString(tbl, "type")) {
	case game.RequirementLevel:
		s := skill.Name(getString(tbl, "skill"))
		if !s.Valid() {
			return game.Requirement{}, fmt.Errorf("level requirement on unknown skill %q", s)
		}
		return game.LevelRequirement(s, getInt(tbl, "level")), nil
	case game.RequirementItem:
		return game.ItemRequirement(game.ItemID(getString(tbl, "item")), max(getInt(tbl, "quantity"), 1)), nil
	case game.RequirementEquipment:
		return game.EquipmentRequirement(game.ItemID(getString(tbl, "item"))), nil
	default:
		return game.Requirement{}, fmt.Errorf("unknown requirement %q", getString(tbl, "type"))
	}
}

func declError(d rawDecl, msg string) error {
	return fmt.Errorf("%w: %s: %s: %s", game.ErrInvalidCatalog, d.file, d.id, msg)
}

func nameOr(d rawDecl) string {
	if n := getString(d.table, "name"); n != "" {
		return n
	}
	return d.id
}

func millis(tbl *lua.LTable, key string) time.Duration {
	return time.Duration(getInt(tbl, key)) * time.Millisecond
}

func stack(tbl *lua.LTable) game.ItemStack {
	return game.ItemStack{
		ItemID:   game.ItemID(getString(tbl, "item")),
		Quantity: max(getInt(tbl, "quantity"), 1),
	}
}

func stacks(tbl *lua.LTable) []game.ItemStack {
	var out []game.ItemStack
	forEachTable(tbl, func(s *lua.LTable) {
		out = append(out, stack(s))
	})
	return out
}

func styleMap(tbl *lua.LTable) map[game.AttackStyle]int {
	if tbl == nil {
		return nil
	}
	out := map[game.AttackStyle]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok1 := k.(lua.LString)
		n, ok2 := v.(lua.LNumber)
		if ok1 && ok2 {
			out[game.AttackStyle(ks)] = int(n)
		}
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
