package inventory

import "stockroom-api/internal/model"

// SampleItems returns the records a fresh store is seeded with.
func SampleItems() []model.InventoryItem {
	return []model.InventoryItem{
		{
			ID:          "1",
			Name:        "Laptop Computer",
			Quantity:    25,
			Category:    "Electronics",
			Description: "High-performance business laptop",
			Price:       1299.99,
			Supplier:    "Tech Solutions Inc.",
			Status:      model.StatusInStock,
			DateAdded:   "2024-01-15T10:30:00.000Z",
			LastUpdated: "2024-01-15T10:30:00.000Z",
		},
		{
			ID:          "2",
			Name:        "Office Chair",
			Quantity:    5,
			Category:    "Furniture",
			Description: "Ergonomic office chair with lumbar support",
			Price:       299.99,
			Supplier:    "Office Furniture Co.",
			Status:      model.StatusLowStock,
			DateAdded:   "2024-01-10T14:20:00.000Z",
			LastUpdated: "2024-01-10T14:20:00.000Z",
		},
		{
			ID:          "3",
			Name:        "Wireless Mouse",
			Quantity:    0,
			Category:    "Electronics",
			Description: "Bluetooth wireless mouse",
			Price:       49.99,
			Supplier:    "Tech Accessories Ltd.",
			Status:      model.StatusOrdered,
			DateAdded:   "2024-01-05T09:15:00.000Z",
			LastUpdated: "2024-01-05T09:15:00.000Z",
		},
	}
}
