package game

// InventoryItem is one stack in a player's inventory.
type InventoryItem struct {
	Material string `json:"material" msgpack:"material"`
	Name     string `json:"name,omitempty" msgpack:"name,omitempty"`
	Quantity int    `json:"quantity" msgpack:"quantity"`
}

// Inventory holds what players bought from the shop.
type Inventory struct {
	Items []InventoryItem `json:"items" msgpack:"items"`
}

func NewInventory() *Inventory {
	return &Inventory{
		Items: []InventoryItem{},
	}
}

// AddItem stacks onto an existing stack of the same material and name.
func (inv *Inventory) AddItem(material, name string, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.Material == material && item.Name == name {
			item.Quantity += quantity
			return
		}
	}
	inv.Items = append(inv.Items, InventoryItem{
		Material: material,
		Name:     name,
		Quantity: quantity,
	})
}

// Count totals every stack of material.
func (inv *Inventory) Count(material string) int {
	total := 0
	for _, item := range inv.Items {
		if item.Material == material {
			total += item.Quantity
		}
	}
	return total
}
