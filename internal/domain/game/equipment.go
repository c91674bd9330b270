package game

// SlotOf resolves the slot an item occupies, preferring the catalog
// definition over the id family.
func SlotOf(content Content, id ItemID) (EquipmentSlot, bool) {
	if content != nil {
		if it, ok := content.Item(id); ok && it.Slot != "" {
			return it.Slot, true
		}
	}
	return SlotForItem(id)
}

// EquipFromBank moves one id from the bank into its slot and banks the item
// it replaces.
func EquipFromBank(c *Character, content Content, id ItemID) (EquipmentSlot, error) {
	slot, ok := SlotOf(content, id)
	if !ok {
		return "", ErrNotEquippable
	}
	if !c.Bank.Remove(id, 1) {
		return "", ErrInsufficientResources
	}
	if prev := c.Equip(id, slot); prev != "" {
		c.Bank.Add(prev, 1)
	}
	return slot, nil
}

// Unequip returns the item in slot to the bank.
func Unequip(c *Character, slot EquipmentSlot) (ItemID, bool) {
	id := c.Equipped(slot)
	if id == "" {
		return "", false
	}
	delete(c.Equipment, slot)
	c.Bank.Add(id, 1)
	return id, true
}

// ApplyStarterKit banks and equips the kit on a fresh character.
func ApplyStarterKit(c *Character, kit StarterKit) {
	for _, s := range kit.Bank {
		c.Bank.Add(s.ItemID, s.Quantity)
	}
	for slot, id := range kit.Equipment {
		c.Equip(id, slot)
	}
}
