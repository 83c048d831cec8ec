package inventory

import (
	"sort"
	"strings"

	"stockroom-api/internal/model"
)

// Criteria selects records. Empty fields match everything.
type Criteria struct {
	Search   string
	Category string
	Status   model.Status
}

// Filter returns the records matching every criterion, in their original
// order. The search term matches name, description, supplier or category,
// ignoring case.
func Filter(items []model.InventoryItem, c Criteria) []model.InventoryItem {
	term := strings.ToLower(c.Search)
	out := make([]model.InventoryItem, 0, len(items))
	for _, item := range items {
		if c.Category != "" && item.Category != c.Category {
			continue
		}
		if c.Status != "" && item.Status != c.Status {
			continue
		}
		if term != "" && !matchesSearch(item, term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item model.InventoryItem, term string) bool {
	for _, field := range []string{item.Name, item.Description, item.Supplier, item.Category} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories in use, sorted.
func Categories(items []model.InventoryItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	sort.Strings(out)
	return out
}
