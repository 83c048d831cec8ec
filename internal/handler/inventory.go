package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"stockroom-api/internal/inventory"
	"stockroom-api/internal/model"
	"stockroom-api/internal/service"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

const maxFormBytes = 64 << 10

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	inventoryService *service.InventoryService
	assistant        *service.AssistantService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService *service.InventoryService, assistant *service.AssistantService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		assistant:        assistant,
	}
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	items, total := h.inventoryService.List(criteria)
	response.JSONWithMeta(w, http.StatusOK, items, len(items), total)
}

// Get handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventoryService.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, item)
}

// Create handles POST /api/v1/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(w, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	item, err := h.inventoryService.Create(r.Context(), form)
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.Created(w, item)
}

// Update handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(w, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	item, err := h.inventoryService.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, item)
}

// Delete handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventoryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.NoContent(w)
}

// Stats handles GET /api/v1/inventory/stats
func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, h.inventoryService.Stats(criteria))
}

// Categories handles GET /api/v1/inventory/categories
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"inUse":     h.inventoryService.Categories(),
		"suggested": model.Categories,
		"statuses":  statusOptions(),
	})
}

// StatusOption is a status value with its display name.
type StatusOption struct {
	Value model.Status `json:"value"`
	Label string       `json:"label"`
}

func statusOptions() []StatusOption {
	out := make([]StatusOption, len(model.Statuses))
	for i, s := range model.Statuses {
		out[i] = StatusOption{Value: s, Label: s.Label()}
	}
	return out
}

// Export handles GET /api/v1/inventory/export?columns=a,b
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var buf bytes.Buffer
	filename, err := h.inventoryService.Export(&buf, criteria, r.URL.Query().Get("columns"))
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Audit handles POST /api/v1/inventory/audit
func (h *InventoryHandler) Audit(w http.ResponseWriter, r *http.Request) {
	text, err := h.assistant.Audit(r.Context())
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, map[string]string{"audit": text})
}

// Forecast handles POST /api/v1/inventory/{id}/forecast
func (h *InventoryHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := h.assistant.Forecast(r.Context(), id)
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, map[string]string{"itemId": id, "forecast": text})
}

// Suggest handles POST /api/v1/inventory/{id}/suggestions/{field}
func (h *InventoryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	result, err := h.assistant.Suggest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "field"))
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, result)
}

func criteriaFrom(r *http.Request) (inventory.Criteria, error) {
	q := r.URL.Query()
	c := inventory.Criteria{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   model.Status(q.Get("status")),
	}
	if c.Status != "" && !c.Status.Valid() {
		return c, apierror.ValidationError("", apierror.FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", c.Status)})
	}
	return c, nil
}

func decodeForm(w http.ResponseWriter, r *http.Request) (model.InventoryForm, error) {
	var form model.InventoryForm

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return form, apierror.PayloadTooLarge("")
		case errors.Is(err, io.EOF):
			return form, apierror.BadRequest("request body is required")
		}
		return form, apierror.BadRequest("invalid JSON: " + err.Error())
	}
	return form, nil
}
