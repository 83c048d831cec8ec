package inventory

import (
	"math"
	"sort"

	"stockroom-api/internal/model"
)

// CategorySummary aggregates the records of one category.
type CategorySummary struct {
	Name          string  `json:"name"`
	TotalValue    float64 `json:"totalValue"`
	TotalQuantity int     `json:"totalQuantity"`
	ItemCount     int     `json:"itemCount"`
}

// Summary holds the dashboard totals for a set of records.
type Summary struct {
	TotalItems    int               `json:"totalItems"`
	TotalValue    float64           `json:"totalValue"`
	InStockCount  int               `json:"inStockCount"`
	LowStockCount int               `json:"lowStockCount"`
	Categories    []CategorySummary `json:"categories"`
}

// Summarize computes totals and a per-category breakdown ordered by value,
// highest first.
func Summarize(items []model.InventoryItem) Summary {
	var sum Summary
	byName := make(map[string]*CategorySummary)
	var order []string

	for _, item := range items {
		value := float64(item.Quantity) * item.Price
		sum.TotalItems += item.Quantity
		sum.TotalValue += value
		switch item.Status {
		case model.StatusInStock:
			sum.InStockCount++
		case model.StatusLowStock:
			sum.LowStockCount++
		}

		cat, ok := byName[item.Category]
		if !ok {
			cat = &CategorySummary{Name: item.Category}
			byName[item.Category] = cat
			order = append(order, item.Category)
		}
		cat.TotalValue += value
		cat.TotalQuantity += item.Quantity
		cat.ItemCount++
	}

	sum.TotalValue = roundCents(sum.TotalValue)
	sum.Categories = make([]CategorySummary, 0, len(order))
	for _, name := range order {
		cat := *byName[name]
		cat.TotalValue = roundCents(cat.TotalValue)
		sum.Categories = append(sum.Categories, cat)
	}
	sort.SliceStable(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].TotalValue > sum.Categories[j].TotalValue
	})
	return sum
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
