package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockroom-api/internal/model"
)

// Column is an exportable record field.
type Column struct {
	Key   string
	Label string
	value func(model.InventoryItem) string
}

// Columns lists every exportable field in export order.
var Columns = []Column{
	{Key: "id", Label: "ID", value: func(i model.InventoryItem) string { return i.ID }},
	{Key: "name", Label: "Name", value: func(i model.InventoryItem) string { return i.Name }},
	{Key: "quantity", Label: "Quantity", value: func(i model.InventoryItem) string { return strconv.Itoa(i.Quantity) }},
	{Key: "category", Label: "Category", value: func(i model.InventoryItem) string { return i.Category }},
	{Key: "description", Label: "Description", value: func(i model.InventoryItem) string { return i.Description }},
	{Key: "price", Label: "Price", value: func(i model.InventoryItem) string { return strconv.FormatFloat(i.Price, 'f', -1, 64) }},
	{Key: "supplier", Label: "Supplier", value: func(i model.InventoryItem) string { return i.Supplier }},
	{Key: "status", Label: "Status", value: func(i model.InventoryItem) string { return string(i.Status) }},
	{Key: "dateAdded", Label: "Date Added", value: func(i model.InventoryItem) string { return i.DateAdded }},
	{Key: "lastUpdated", Label: "Last Updated", value: func(i model.InventoryItem) string { return i.LastUpdated }},
}

// SelectColumns resolves a comma-separated key list. An empty list selects
// every column. The result always follows export order.
func SelectColumns(keys string) ([]Column, error) {
	if strings.TrimSpace(keys) == "" {
		return Columns, nil
	}

	want := make(map[string]bool)
	for _, k := range strings.Split(keys, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if !isColumn(k) {
			return nil, &ValidationError{Fields: []FieldError{{Field: "columns", Message: fmt.Sprintf("unknown column %q", k)}}}
		}
		want[k] = true
	}

	var out []Column
	for _, c := range Columns {
		if want[c.Key] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, &ValidationError{Fields: []FieldError{{Field: "columns", Message: "select at least one column"}}}
	}
	return out, nil
}

// WithoutColumn drops the column with the given key.
func WithoutColumn(cols []Column, key string) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Key != key {
			out = append(out, c)
		}
	}
	return out
}

func isColumn(key string) bool {
	for _, c := range Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// WriteCSV writes a header row of column labels followed by one row per item.
func WriteCSV(w io.Writer, items []model.InventoryItem, cols []Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, item := range items {
		for i, c := range cols {
			row[i] = c.value(item)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename names an export taken at t.
func ExportFilename(t time.Time) string {
	return "inventory_export_" + t.UTC().Format("2006-01-02") + ".csv"
}
