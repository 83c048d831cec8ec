package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"stockroom-api/internal/auth"
	"stockroom-api/internal/inventory"
	"stockroom-api/internal/model"
)

// ErrPermissionDenied is returned when the current user lacks the
// permission an operation needs. Nothing is changed.
var ErrPermissionDenied = errors.New("permission denied")

// MutationObserver is notified of every attempted store mutation.
type MutationObserver interface {
	ObserveMutation(op, result string)
}

// ItemView is a record as shown to the current user. Price is nil when the
// user may not see prices.
type ItemView struct {
	model.InventoryItem
	Price *float64 `json:"price,omitempty"`
}

// CategoryView is one category of StatsView.
type CategoryView struct {
	Name          string   `json:"name"`
	TotalValue    *float64 `json:"totalValue,omitempty"`
	TotalQuantity int      `json:"totalQuantity"`
	ItemCount     int      `json:"itemCount"`
}

// StatsView is inventory.Summary with values hidden from users who may not
// see prices.
type StatsView struct {
	TotalItems    int            `json:"totalItems"`
	TotalValue    *float64       `json:"totalValue,omitempty"`
	InStockCount  int            `json:"inStockCount"`
	LowStockCount int            `json:"lowStockCount"`
	Categories    []CategoryView `json:"categories"`
}

// InventoryService applies the current session's permissions to store
// operations.
type InventoryService struct {
	store    *inventory.Store
	session  *auth.Session
	observer MutationObserver
	now      func() time.Time
}

// NewInventoryService creates a new inventory service. observer may be nil.
func NewInventoryService(store *inventory.Store, session *auth.Session, observer MutationObserver) *InventoryService {
	return &InventoryService{
		store:    store,
		session:  session,
		observer: observer,
		now:      time.Now,
	}
}

// Permissions returns the permissions of the current user.
func (s *InventoryService) Permissions() model.Permissions {
	return s.session.State().Permissions()
}

func (s *InventoryService) require(action auth.Action) (model.Permissions, error) {
	perms := s.Permissions()
	if !auth.Allows(perms, action) {
		return perms, fmt.Errorf("%s: %w", action, ErrPermissionDenied)
	}
	return perms, nil
}

// List returns the records matching c, and the size of the whole collection.
func (s *InventoryService) List(c inventory.Criteria) ([]ItemView, int) {
	all := s.store.List()
	return s.views(inventory.Filter(all, c)), len(all)
}

// Get returns one record.
func (s *InventoryService) Get(id string) (ItemView, error) {
	item, ok := s.store.Get(id)
	if !ok {
		return ItemView{}, fmt.Errorf("get %q: %w", id, inventory.ErrNotFound)
	}
	return viewOf(item, s.Permissions()), nil
}

// Create validates form and adds a record. An empty status is derived from
// the quantity.
func (s *InventoryService) Create(ctx context.Context, form model.InventoryForm) (ItemView, error) {
	perms, err := s.require(auth.ActionCreate)
	if err != nil {
		s.observe("create", err)
		return ItemView{}, err
	}
	if err := inventory.ValidateForm(form, true); err != nil {
		s.observe("create", err)
		return ItemView{}, err
	}

	item := s.store.Add(ctx, form)
	s.observe("create", nil)
	return viewOf(item, perms), nil
}

// Update validates form and overwrites the record's editable fields.
func (s *InventoryService) Update(ctx context.Context, id string, form model.InventoryForm) (ItemView, error) {
	perms, err := s.require(auth.ActionEdit)
	if err != nil {
		s.observe("update", err)
		return ItemView{}, err
	}
	if err := inventory.ValidateForm(form, false); err != nil {
		s.observe("update", err)
		return ItemView{}, err
	}

	item, err := s.store.Update(ctx, id, form)
	s.observe("update", err)
	if err != nil {
		return ItemView{}, err
	}
	return viewOf(item, perms), nil
}

// Delete removes a record.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.require(auth.ActionDelete); err != nil {
		s.observe("delete", err)
		return err
	}
	err := s.store.Remove(ctx, id)
	s.observe("delete", err)
	return err
}

// Stats summarizes the records matching c.
func (s *InventoryService) Stats(c inventory.Criteria) StatsView {
	sum := inventory.Summarize(inventory.Filter(s.store.List(), c))
	showPrice := s.Permissions().CanViewPrice

	view := StatsView{
		TotalItems:    sum.TotalItems,
		InStockCount:  sum.InStockCount,
		LowStockCount: sum.LowStockCount,
		Categories:    make([]CategoryView, len(sum.Categories)),
	}
	if showPrice {
		view.TotalValue = float64Ptr(sum.TotalValue)
	}
	for i, cat := range sum.Categories {
		view.Categories[i] = CategoryView{
			Name:          cat.Name,
			TotalQuantity: cat.TotalQuantity,
			ItemCount:     cat.ItemCount,
		}
		if showPrice {
			view.Categories[i].TotalValue = float64Ptr(cat.TotalValue)
		}
	}
	if !showPrice {
		// Value order would reveal the hidden prices.
		sort.SliceStable(view.Categories, func(i, j int) bool {
			a, b := view.Categories[i], view.Categories[j]
			if a.TotalQuantity != b.TotalQuantity {
				return a.TotalQuantity > b.TotalQuantity
			}
			return a.Name < b.Name
		})
	}
	return view
}

// Categories returns the categories in use.
func (s *InventoryService) Categories() []string {
	return inventory.Categories(s.store.List())
}

// Export writes the records matching c as CSV and returns the download file
// name. The price column is dropped for users who may not see prices.
func (s *InventoryService) Export(w io.Writer, c inventory.Criteria, columns string) (string, error) {
	perms, err := s.require(auth.ActionExport)
	if err != nil {
		return "", err
	}

	cols, err := inventory.SelectColumns(columns)
	if err != nil {
		return "", err
	}
	if !perms.CanViewPrice {
		cols = inventory.WithoutColumn(cols, "price")
		if len(cols) == 0 {
			return "", &inventory.ValidationError{Fields: []inventory.FieldError{{Field: "columns", Message: "select at least one column"}}}
		}
	}

	if err := inventory.WriteCSV(w, inventory.Filter(s.store.List(), c), cols); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return inventory.ExportFilename(s.now()), nil
}

func (s *InventoryService) views(items []model.InventoryItem) []ItemView {
	perms := s.Permissions()
	out := make([]ItemView, len(items))
	for i, item := range items {
		out[i] = viewOf(item, perms)
	}
	return out
}

func (s *InventoryService) observe(op string, err error) {
	if s.observer == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrPermissionDenied):
		result = "denied"
	case errors.Is(err, inventory.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "invalid"
	}
	s.observer.ObserveMutation(op, result)
}

func viewOf(item model.InventoryItem, perms model.Permissions) ItemView {
	v := ItemView{InventoryItem: item}
	if perms.CanViewPrice {
		v.Price = float64Ptr(item.Price)
	}
	return v
}

func float64Ptr(v float64) *float64 {
	return &v
}
