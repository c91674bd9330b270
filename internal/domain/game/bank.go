package game

// Bank is the ordered list of item stacks a character owns.
type Bank []ItemStack

func (b Bank) Quantity(id ItemID) int {
	total := 0
	for _, s := range b {
		if s.ItemID == id {
			total += s.Quantity
		}
	}
	return total
}

// Add merges quantity into the first stack of id, appending a new stack
// when none exists.
func (b *Bank) Add(id ItemID, quantity int) {
	if quantity <= 0 || id == "" {
		return
	}
	for i := range *b {
		if (*b)[i].ItemID == id {
			(*b)[i].Quantity += quantity
			return
		}
	}
	*b = append(*b, ItemStack{ItemID: id, Quantity: quantity})
}

// Remove takes quantity of id across stacks. It removes nothing and
// returns false when the bank cannot cover the full amount.
func (b *Bank) Remove(id ItemID, quantity int) bool {
	if quantity <= 0 || id == "" {
		return false
	}
	if b.Quantity(id) < quantity {
		return false
	}
	remaining := quantity
	out := (*b)[:0]
	for _, s := range *b {
		if s.ItemID == id && remaining > 0 {
			take := s.Quantity
			if take > remaining {
				take = remaining
			}
			s.Quantity -= take
			remaining -= take
		}
		if s.Quantity > 0 {
			out = append(out, s)
		}
	}
	*b = out
	return true
}

// CanAfford reports whether every cost can be taken from the bank at once.
func (b Bank) CanAfford(costs []ItemStack) bool {
	need := map[ItemID]int{}
	for _, c := range costs {
		need[c.ItemID] += c.Quantity
	}
	for id, qty := range need {
		if b.Quantity(id) < qty {
			return false
		}
	}
	return true
}

func (b Bank) Clone() Bank {
	if b == nil {
		return Bank{}
	}
	out := make(Bank, len(b))
	copy(out, b)
	return out
}
