package ai

import (
	"encoding/json"
	"errors"
	"fmt"

	"stockroom-api/internal/model"
)

// Kind names a task accepted by the dispatcher.
type Kind string

const (
	KindChat                Kind = "chat"
	KindAuditInventory      Kind = "audit-inventory"
	KindForecastRestock     Kind = "forecast-restock"
	KindGenerateDescription Kind = "generate-description"
	KindSuggestCategory     Kind = "suggest-category"
)

// Kinds lists every task kind.
var Kinds = []Kind{KindChat, KindAuditInventory, KindForecastRestock, KindGenerateDescription, KindSuggestCategory}

// Task is one of Chat, Audit, Forecast, Describe or SuggestCategory.
type Task interface {
	Kind() Kind
	task()
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat answers questions about the inventory, streaming the reply.
type Chat struct {
	Messages  []Message
	Inventory []model.InventoryItem
}

// Audit reviews the whole inventory.
type Audit struct {
	Inventory []model.InventoryItem
}

// Forecast predicts when an item will run out.
type Forecast struct {
	Name         string
	Quantity     int
	SalesHistory []model.SalesData
}

// Describe writes a product description.
type Describe struct {
	Name     string
	Category string
}

// SuggestCategory proposes a category label for an item.
type SuggestCategory struct {
	Name string
}

func (Chat) Kind() Kind            { return KindChat }
func (Audit) Kind() Kind           { return KindAuditInventory }
func (Forecast) Kind() Kind        { return KindForecastRestock }
func (Describe) Kind() Kind        { return KindGenerateDescription }
func (SuggestCategory) Kind() Kind { return KindSuggestCategory }

func (Chat) task()            {}
func (Audit) task()           {}
func (Forecast) task()        {}
func (Describe) task()        {}
func (SuggestCategory) task() {}

// ItemInfo is the item payload of the single-item tasks.
type ItemInfo struct {
	Name         string            `json:"name"`
	Category     string            `json:"category,omitempty"`
	Quantity     *int              `json:"quantity,omitempty"`
	SalesHistory []model.SalesData `json:"salesHistory,omitempty"`
}

// Request is the wire form of POST /api/ai.
type Request struct {
	Task      string                `json:"task"`
	Messages  []Message             `json:"messages,omitempty"`
	Inventory []model.InventoryItem `json:"inventory,omitempty"`
	ItemInfo  *ItemInfo             `json:"itemInfo,omitempty"`
}

// ErrInvalidTask is returned for an unknown task tag.
var ErrInvalidTask = errors.New("invalid task")

// ErrMalformedRequest is returned when the body is not a JSON request.
var ErrMalformedRequest = errors.New("malformed request body")

// MissingFieldError names a required payload field that was absent.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s for %s task", e.Field, e.Kind)
}

// Parse decodes and validates a request body.
func Parse(body []byte) (Task, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return Decode(req)
}

// Decode validates req and returns the typed task it describes.
func Decode(req Request) (Task, error) {
	kind := Kind(req.Task)
	switch kind {
	case KindChat:
		if req.Messages == nil {
			return nil, &MissingFieldError{Kind: kind, Field: "messages"}
		}
		if req.Inventory == nil {
			return nil, &MissingFieldError{Kind: kind, Field: "inventory"}
		}
		return Chat{Messages: req.Messages, Inventory: req.Inventory}, nil

	case KindAuditInventory:
		if req.Inventory == nil {
			return nil, &MissingFieldError{Kind: kind, Field: "inventory"}
		}
		return Audit{Inventory: req.Inventory}, nil

	case KindForecastRestock:
		info, err := requireItem(kind, req.ItemInfo)
		if err != nil {
			return nil, err
		}
		if info.Quantity == nil {
			return nil, &MissingFieldError{Kind: kind, Field: "itemInfo.quantity"}
		}
		return Forecast{Name: info.Name, Quantity: *info.Quantity, SalesHistory: info.SalesHistory}, nil

	case KindGenerateDescription:
		info, err := requireItem(kind, req.ItemInfo)
		if err != nil {
			return nil, err
		}
		return Describe{Name: info.Name, Category: info.Category}, nil

	case KindSuggestCategory:
		info, err := requireItem(kind, req.ItemInfo)
		if err != nil {
			return nil, err
		}
		return SuggestCategory{Name: info.Name}, nil
	}
	return nil, ErrInvalidTask
}

func requireItem(kind Kind, info *ItemInfo) (*ItemInfo, error) {
	if info == nil {
		return nil, &MissingFieldError{Kind: kind, Field: "itemInfo"}
	}
	if info.Name == "" {
		return nil, &MissingFieldError{Kind: kind, Field: "itemInfo.name"}
	}
	return info, nil
}
