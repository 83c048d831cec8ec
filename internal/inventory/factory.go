package inventory

import (
	"strings"
	"time"

	"stockroom-api/internal/model"
	"stockroom-api/pkg/uid"
)

// TimeLayout matches the millisecond ISO-8601 form used by browser snapshots.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Factory builds records from forms. NewID and Now are injectable so tests
// can pin identities and timestamps.
type Factory struct {
	NewID func() string
	Now   func() time.Time
}

// NewFactory returns a factory using UUIDs and the wall clock.
func NewFactory() *Factory {
	return &Factory{NewID: uid.New, Now: time.Now}
}

func (f *Factory) timestamp() string {
	return f.Now().UTC().Format(TimeLayout)
}

// Create builds a new record with a fresh id. An empty status is derived
// from the quantity.
func (f *Factory) Create(form model.InventoryForm) model.InventoryItem {
	now := f.timestamp()
	status := form.Status
	if status == "" {
		status = ClassifyStatus(form.Quantity)
	}
	return model.InventoryItem{
		ID:          f.NewID(),
		Name:        form.Name,
		Quantity:    form.Quantity,
		Category:    form.Category,
		Description: form.Description,
		Price:       form.Price,
		Supplier:    form.Supplier,
		Status:      status,
		DateAdded:   now,
		LastUpdated: now,
	}
}

// ApplyUpdate overwrites the form fields of existing. Identity, DateAdded and
// sales history are kept; LastUpdated never moves backwards.
func (f *Factory) ApplyUpdate(existing model.InventoryItem, form model.InventoryForm) model.InventoryItem {
	updated := existing
	updated.Name = form.Name
	updated.Quantity = form.Quantity
	updated.Category = form.Category
	updated.Description = form.Description
	updated.Price = form.Price
	updated.Supplier = form.Supplier
	updated.Status = form.Status

	updated.LastUpdated = f.timestamp()
	if prev, err := time.Parse(time.RFC3339Nano, existing.LastUpdated); err == nil {
		if now, err := time.Parse(time.RFC3339Nano, updated.LastUpdated); err == nil && now.Before(prev) {
			updated.LastUpdated = existing.LastUpdated
		}
	}
	return updated
}

// ValidateForm checks the required fields of a form. Creating allows an
// empty status, which Create fills in.
func ValidateForm(form model.InventoryForm, creating bool) error {
	var fields []FieldError
	if strings.TrimSpace(form.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if form.Quantity < 0 {
		fields = append(fields, FieldError{Field: "quantity", Message: "must be non-negative"})
	}
	if form.Price < 0 {
		fields = append(fields, FieldError{Field: "price", Message: "must be non-negative"})
	}
	switch {
	case form.Status == "" && creating:
	case !form.Status.Valid():
		fields = append(fields, FieldError{Field: "status", Message: "must be one of in-stock, low-stock, ordered, discontinued"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
