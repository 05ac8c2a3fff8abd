package cart

import "jaggery_back_end/internal/models"

// The functions below are the cart rules. They never modify their input
// and always return a slice that satisfies: ids unique, quantities >= 1,
// insertion order preserved.

// AddItem increments the quantity of p if present, otherwise appends it with quantity 1.
func AddItem(items []models.CartItem, p models.Product) []models.CartItem {
	out := clone(items)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, models.NewCartItem(p))
}

// UpdateQuantity sets the quantity of id. Quantities below 1 remove the item.
// Unknown ids leave the cart unchanged.
func UpdateQuantity(items []models.CartItem, id, quantity int) []models.CartItem {
	if quantity < 1 {
		return RemoveItem(items, id)
	}
	out := clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}

func RemoveItem(items []models.CartItem, id int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Normalize merges duplicate ids into their first position and drops quantities below 1.
func Normalize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	index := make(map[int]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func Contains(items []models.CartItem, id int) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
