package engine

import (
	"time"

	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtureCatalog() *game.Catalog {
	c := game.NewCatalog()
	c.Locations["lumbridge"] = game.Location{ID: "lumbridge", Name: "Lumbridge", Actions: []string{"cut_tree", "cook_shrimp", "fight_goblin", "general_store"}}
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
	c.Actions["cook_shrimp"] = game.Action{
		ID:           "cook_shrimp",
		Name:         "Cook Shrimp",
		Kind:         game.ActionCraft,
		Location:     "lumbridge",
		Skill:        skill.Cooking,
		Experience:   30,
		BaseTime:     2 * time.Second,
		ItemReward:   &game.ItemStack{ItemID: "shrimp", Quantity: 1},
		Requirements: []game.Requirement{game.ItemRequirement("raw_shrimp", 1)},
	}
	c.Actions["fight_goblin"] = game.Action{ID: "fight_goblin", Name: "Fight Goblin", Kind: game.ActionCombat, Location: "lumbridge", MonsterID: "goblin"}
	c.Actions["general_store"] = game.Action{ID: "general_store", Name: "General Store", Kind: game.ActionStore, Location: "lumbridge"}
	c.Monsters["goblin"] = game.Monster{
		ID:          "goblin",
		Name:        "Goblin",
		Hitpoints:   5,
		AttackStyle: game.StyleCrush,
		Experience:  20,
		Stats:       game.MonsterStats{Attack: 1, Strength: 1, Defence: 1},
		Drops:       []game.Drop{{ItemID: "bones", Quantity: 1, Chance: 100}},
	}
	return c
}

func woodcutter() *game.Character {
	c := game.NewCharacter("char-1", "user-1", "Tester", t0)
	c.Equip("bronze_axe", game.SlotWeapon)
	return &c
}
