package model

// Status is the lifecycle state of an inventory record.
type Status string

const (
	StatusInStock      Status = "in-stock"
	StatusLowStock     Status = "low-stock"
	StatusOrdered      Status = "ordered"
	StatusDiscontinued Status = "discontinued"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusInStock, StatusLowStock, StatusOrdered, StatusDiscontinued}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOrdered, StatusDiscontinued:
		return true
	}
	return false
}

// Label returns the human-readable status name.
func (s Status) Label() string {
	switch s {
	case StatusInStock:
		return "In Stock"
	case StatusLowStock:
		return "Low Stock"
	case StatusOrdered:
		return "Ordered"
	case StatusDiscontinued:
		return "Discontinued"
	default:
		return "Unknown"
	}
}

// Categories is the fixed category suggestion list. Records may still carry
// any free-text category.
var Categories = []string{"Electronics", "Furniture", "Office Supplies", "Equipment", "Software", "Other"}

// IsKnownCategory reports whether c is on the suggestion list.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SalesData is one point of an item's sales history, used for forecasting.
type SalesData struct {
	Date         string `json:"date"`
	QuantitySold int    `json:"quantitySold"`
}

// InventoryItem is a single inventory record as persisted in the snapshot.
// Timestamps are RFC3339 strings in UTC so the snapshot stays byte-compatible
// with existing browser exports.
type InventoryItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	Supplier     string      `json:"supplier"`
	Status       Status      `json:"status"`
	DateAdded    string      `json:"dateAdded"`
	LastUpdated  string      `json:"lastUpdated"`
	SalesHistory []SalesData `json:"salesHistory,omitempty"`
}

// InventoryForm enumerates exactly the fields a user may set on a record.
type InventoryForm struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Supplier    string  `json:"supplier"`
	Status      Status  `json:"status"`
}

// FormOf returns the mutable fields of item as a form.
func FormOf(item InventoryItem) InventoryForm {
	return InventoryForm{
		Name:        item.Name,
		Quantity:    item.Quantity,
		Category:    item.Category,
		Description: item.Description,
		Price:       item.Price,
		Supplier:    item.Supplier,
		Status:      item.Status,
	}
}
