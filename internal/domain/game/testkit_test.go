package game

import (
	"time"

	"idlescape/internal/domain/skill"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCharacter() Character {
	return NewCharacter("char-1", "user-1", "Tester", testNow)
}

func testCatalog() *Catalog {
	c := NewCatalog()
	c.Locations["lumbridge"] = Location{ID: "lumbridge", Name: "Lumbridge", Actions: []string{"cut_tree", "cook_shrimp", "fight_goblin"}}
	c.Locations["draynor"] = Location{ID: "draynor", Name: "Draynor", Actions: []string{"cut_oak"}}
	c.Items["bronze_axe"] = Item{ID: "bronze_axe", Name: "Bronze axe", Slot: SlotWeapon}
	c.Items["bronze_sword"] = Item{
		ID:          "bronze_sword",
		Name:        "Bronze sword",
		Slot:        SlotWeapon,
		AttackSpeed: 1800 * time.Millisecond,
		Bonuses: EquipmentBonuses{
			Attack:   map[AttackStyle]int{StyleSlash: 5},
			Strength: 4,
		},
	}
	c.Actions["cut_tree"] = Action{
		ID:           "cut_tree",
		Name:         "Cut Tree",
		Kind:         ActionGather,
		Location:     "lumbridge",
		Skill:        skill.Woodcutting,
		Experience:   25,
		BaseTime:     3 * time.Second,
		ItemReward:   &ItemStack{ItemID: "logs", Quantity: 1},
		Requirements: []Requirement{EquipmentRequirement("bronze_axe")},
	}
	c.Actions["cut_oak"] = Action{
		ID:            "cut_oak",
		Name:          "Cut Oak",
		Kind:          ActionGather,
		Location:      "draynor",
		Skill:         skill.Woodcutting,
		LevelRequired: 15,
		Experience:    37,
		BaseTime:      4 * time.Second,
		ItemReward:    &ItemStack{ItemID: "oak_logs", Quantity: 1},
	}
	c.Actions["cook_shrimp"] = Action{
		ID:           "cook_shrimp",
		Name:         "Cook Shrimp",
		Kind:         ActionCraft,
		Location:     "lumbridge",
		Skill:        skill.Cooking,
		Experience:   30,
		BaseTime:     2 * time.Second,
		ItemReward:   &ItemStack{ItemID: "shrimp", Quantity: 1},
		Requirements: []Requirement{ItemRequirement("raw_shrimp", 1)},
	}
	c.Actions["fight_goblin"] = Action{
		ID:        "fight_goblin",
		Name:      "Fight Goblin",
		Kind:      ActionCombat,
		Location:  "lumbridge",
		MonsterID: "goblin",
	}
	c.Monsters["goblin"] = Monster{
		ID:          "goblin",
		Name:        "Goblin",
		CombatLevel: 2,
		Hitpoints:   5,
		AttackStyle: StyleCrush,
		Experience:  20,
		Stats:       MonsterStats{Attack: 1, Strength: 1, Defence: 1},
		Drops: []Drop{
			{ItemID: "bones", Quantity: 1, Chance: 100},
			{ItemID: "goblin_mail", Quantity: 1, Chance: 0},
		},
	}
	c.Monsters["cow"] = Monster{ID: "cow", Name: "Cow", Hitpoints: 8, Stats: MonsterStats{Attack: 1, Strength: 1, Defence: 1}}
	c.SlayerPools[DifficultyEasy] = []SlayerAssignment{{MonsterID: "goblin", MinAmount: 10, MaxAmount: 20}}
	c.SlayerPools[DifficultyMedium] = []SlayerAssignment{{MonsterID: "cow", MinAmount: 5, MaxAmount: 5}}
	return c
}
