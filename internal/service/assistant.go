package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockroom-api/internal/ai"
	"stockroom-api/internal/auth"
	"stockroom-api/internal/inventory"
	"stockroom-api/internal/model"
)

// ErrNotForecastable is returned when forecasting an item that is neither
// in stock nor low on stock.
var ErrNotForecastable = errors.New("forecasts are only available for in-stock or low-stock items")

// ErrUnknownField is returned for a suggestion field other than
// description or category.
var ErrUnknownField = errors.New("unsupported suggestion field")

// errStale aborts a suggestion whose target changed while it was generated.
var errStale = errors.New("record changed while the suggestion was generated")

// Suggestion fields.
const (
	FieldDescription = "description"
	FieldCategory    = "category"
)

// SuggestionResult reports what happened to one AI suggestion.
type SuggestionResult struct {
	ItemID     string    `json:"itemId"`
	Field      string    `json:"field"`
	Suggestion string    `json:"suggestion"`
	Accepted   bool      `json:"accepted"`
	Stale      bool      `json:"stale"`
	Reason     string    `json:"reason,omitempty"`
	Item       *ItemView `json:"item,omitempty"`
}

// AssistantService runs AI tasks against stored records.
type AssistantService struct {
	inventory  *InventoryService
	dispatcher *ai.Dispatcher
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(inv *InventoryService, dispatcher *ai.Dispatcher) *AssistantService {
	return &AssistantService{inventory: inv, dispatcher: dispatcher}
}

// Audit reviews the current inventory snapshot.
func (a *AssistantService) Audit(ctx context.Context) (string, error) {
	if _, err := a.inventory.require(auth.ActionRunAudit); err != nil {
		return "", err
	}
	return a.dispatcher.Text(ctx, ai.Audit{Inventory: a.inventory.store.List()})
}

// Forecast predicts when the record will run out.
func (a *AssistantService) Forecast(ctx context.Context, id string) (string, error) {
	item, ok := a.inventory.store.Get(id)
	if !ok {
		return "", fmt.Errorf("forecast %q: %w", id, inventory.ErrNotFound)
	}
	if item.Status != model.StatusInStock && item.Status != model.StatusLowStock {
		return "", fmt.Errorf("forecast %q: %w", id, ErrNotForecastable)
	}

	text, err := a.dispatcher.Text(ctx, ai.Forecast{
		Name:         item.Name,
		Quantity:     item.Quantity,
		SalesHistory: item.SalesHistory,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Suggest asks for a new value of field and writes it to the record, unless
// the record was removed or the field edited while the suggestion was being
// generated. Such results are reported as stale and discarded.
func (a *AssistantService) Suggest(ctx context.Context, id, field string) (SuggestionResult, error) {
	if field != FieldDescription && field != FieldCategory {
		return SuggestionResult{}, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	if _, err := a.inventory.require(auth.ActionEdit); err != nil {
		return SuggestionResult{}, err
	}

	item, ok := a.inventory.store.Get(id)
	if !ok {
		return SuggestionResult{}, fmt.Errorf("suggest %q: %w", id, inventory.ErrNotFound)
	}
	before := fieldValue(item, field)

	var task ai.Task = ai.Describe{Name: item.Name, Category: item.Category}
	if field == FieldCategory {
		task = ai.SuggestCategory{Name: item.Name}
	}
	text, err := a.dispatcher.Text(ctx, task)
	if err != nil {
		return SuggestionResult{}, err
	}

	result := SuggestionResult{ItemID: id, Field: field, Suggestion: strings.TrimSpace(text)}
	if field == FieldCategory {
		label, known := ai.CheckCategory(text)
		result.Suggestion = label
		if !known {
			result.Reason = fmt.Sprintf("%q is not one of the known categories", label)
			return result, nil
		}
	}

	updated, err := a.inventory.store.Modify(ctx, id, func(current model.InventoryItem) (model.InventoryForm, error) {
		if fieldValue(current, field) != before {
			return model.InventoryForm{}, errStale
		}
		if _, err := a.inventory.require(auth.ActionEdit); err != nil {
			return model.InventoryForm{}, err
		}
		form := model.FormOf(current)
		if field == FieldCategory {
			form.Category = result.Suggestion
		} else {
			form.Description = result.Suggestion
		}
		return form, nil
	})
	switch {
	case errors.Is(err, errStale), errors.Is(err, inventory.ErrNotFound):
		result.Stale = true
		result.Reason = errStale.Error()
		if errors.Is(err, inventory.ErrNotFound) {
			result.Reason = "record was removed while the suggestion was generated"
		}
		a.inventory.observe("suggest", nil)
		return result, nil
	case err != nil:
		a.inventory.observe("suggest", err)
		return SuggestionResult{}, err
	}

	a.inventory.observe("suggest", nil)
	view := viewOf(updated, a.inventory.Permissions())
	result.Accepted = true
	result.Item = &view
	return result, nil
}

func fieldValue(item model.InventoryItem, field string) string {
	if field == FieldCategory {
		return item.Category
	}
	return item.Description
}
