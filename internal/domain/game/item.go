package game

import (
	"strings"
	"time"
)

type ItemID string

type ItemStack struct {
	ItemID   ItemID `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type EquipmentSlot string

const (
	SlotWeapon EquipmentSlot = "weapon"
	SlotShield EquipmentSlot = "shield"
	SlotHead   EquipmentSlot = "head"
	SlotBody   EquipmentSlot = "body"
	SlotLegs   EquipmentSlot = "legs"
	SlotFeet   EquipmentSlot = "feet"
	SlotHands  EquipmentSlot = "hands"
	SlotCape   EquipmentSlot = "cape"
	SlotNeck   EquipmentSlot = "neck"
	SlotRing   EquipmentSlot = "ring"
	SlotAmmo   EquipmentSlot = "ammo"
)

// Item is a catalog item definition. Only equippable items carry a slot.
type Item struct {
	ID          ItemID           `json:"id"`
	Name        string           `json:"name"`
	Slot        EquipmentSlot    `json:"slot,omitempty"`
	Style       AttackStyle      `json:"style,omitempty"`
	AttackSpeed time.Duration    `json:"attack_speed,omitempty"`
	Bonuses     EquipmentBonuses `json:"bonuses"`
	Value       int              `json:"value,omitempty"`
}

type EquipmentBonuses struct {
	Attack   map[AttackStyle]int `json:"attack,omitempty"`
	Defence  map[AttackStyle]int `json:"defence,omitempty"`
	Strength int                 `json:"strength,omitempty"`
	Prayer   int                 `json:"prayer,omitempty"`
}

// slotFamilies maps item id suffixes to the slot the family occupies.
var slotFamilies = []struct {
	suffix string
	slot   EquipmentSlot
}{
	{"pickaxe", SlotWeapon},
	{"axe", SlotWeapon},
	{"harpoon", SlotWeapon},
	{"rod", SlotWeapon},
	{"sword", SlotWeapon},
	{"scimitar", SlotWeapon},
	{"dagger", SlotWeapon},
	{"mace", SlotWeapon},
	{"bow", SlotWeapon},
	{"staff", SlotWeapon},
	{"shield", SlotShield},
	{"helm", SlotHead},
	{"helmet", SlotHead},
	{"platebody", SlotBody},
	{"body", SlotBody},
	{"platelegs", SlotLegs},
	{"legs", SlotLegs},
	{"boots", SlotFeet},
	{"gloves", SlotHands},
	{"cape", SlotCape},
	{"amulet", SlotNeck},
	{"ring", SlotRing},
	{"arrows", SlotAmmo},
}

// SlotForItem infers the equipment slot from the item id family,
// e.g. "bronze_axe" and "rune_pickaxe" both occupy the weapon slot.
func SlotForItem(id ItemID) (EquipmentSlot, bool) {
	name := strings.ToLower(string(id))
	for _, f := range slotFamilies {
		if name == f.suffix || strings.HasSuffix(name, "_"+f.suffix) || strings.HasSuffix(name, " "+f.suffix) {
			return f.slot, true
		}
	}
	return "", false
}
