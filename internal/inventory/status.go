package inventory

import "stockroom-api/internal/model"

// LowStockThreshold is the quantity at which a record stops being low-stock.
const LowStockThreshold = 10

// ClassifyStatus maps a quantity to the status a new record starts with.
func ClassifyStatus(quantity int) model.Status {
	switch {
	case quantity <= 0:
		return model.StatusDiscontinued
	case quantity < LowStockThreshold:
		return model.StatusLowStock
	default:
		return model.StatusInStock
	}
}
