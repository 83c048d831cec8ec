package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"stockroom-api/internal/model"
)

// DefaultMaxSnapshotBytes mirrors the usual 5 MiB browser storage quota.
const DefaultMaxSnapshotBytes = 5 << 20

// Slot is the durable key-value entry holding the snapshot.
type Slot interface {
	// Load returns the stored snapshot, or ok=false when the slot is empty.
	Load(ctx context.Context) (data []byte, ok bool, err error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error
}

// Options tunes a Store.
type Options struct {
	Factory          *Factory
	MaxSnapshotBytes int
}

// Store is the in-memory record collection, mirrored to a Slot after every
// mutation. Once a load or save fails the store keeps working in memory
// only and stops writing to the slot.
type Store struct {
	mu       sync.RWMutex
	items    []model.InventoryItem
	slot     Slot
	factory  *Factory
	maxBytes int

	degraded bool
	lastErr  error
}

// Open loads the snapshot from slot. An empty slot is seeded with the
// sample records; an unreadable one yields a degraded session with the
// sample records. Open never fails.
func Open(ctx context.Context, slot Slot, opts Options) *Store {
	s := &Store{
		slot:     slot,
		factory:  opts.Factory,
		maxBytes: opts.MaxSnapshotBytes,
	}
	if s.factory == nil {
		s.factory = NewFactory()
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxSnapshotBytes
	}

	if slot == nil {
		s.items = SampleItems()
		s.degrade(&PersistenceError{Op: "load", Err: fmt.Errorf("no storage slot configured")})
		return s
	}

	data, ok, err := slot.Load(ctx)
	if err != nil {
		s.items = SampleItems()
		s.degrade(&PersistenceError{Op: "load", Err: err})
		return s
	}
	if !ok {
		s.items = SampleItems()
		log.Printf("[InventoryStore] Empty slot, seeding %d sample items", len(s.items))
		s.persist(ctx)
		return s
	}

	var items []model.InventoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.items = SampleItems()
		s.degrade(&PersistenceError{Op: "load", Err: fmt.Errorf("corrupt snapshot: %w", err)})
		return s
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	s.items = items
	log.Printf("[InventoryStore] Loaded %d items", len(items))
	return s
}

// List returns every record in insertion order.
func (s *Store) List() []model.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (model.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return model.InventoryItem{}, false
}

// Add creates a record from form and appends it.
func (s *Store) Add(ctx context.Context, form model.InventoryForm) model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.factory.Create(form)
	s.items = append(s.items, item)
	s.persist(ctx)
	return item
}

// Update overwrites the form fields of the record with the given id.
func (s *Store) Update(ctx context.Context, id string, form model.InventoryForm) (model.InventoryItem, error) {
	return s.Modify(ctx, id, func(model.InventoryItem) (model.InventoryForm, error) {
		return form, nil
	})
}

// Modify updates a record with the form returned by fn, which sees the
// current record under the store lock. An error from fn aborts the update.
func (s *Store) Modify(ctx context.Context, id string, fn func(current model.InventoryItem) (model.InventoryForm, error)) (model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.InventoryItem{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	form, err := fn(s.items[i])
	if err != nil {
		return model.InventoryItem{}, err
	}

	s.items[i] = s.factory.ApplyUpdate(s.items[i], form)
	s.persist(ctx)
	return s.items[i], nil
}

// Remove deletes the record with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}

	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist(ctx)
	return nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Degraded reports whether the store has fallen back to memory only, and
// the failure that caused it.
func (s *Store) Degraded() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded, s.lastErr
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection to the slot. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.degraded {
		return
	}

	data, err := json.Marshal(s.items)
	if err != nil {
		s.degrade(&PersistenceError{Op: "save", Err: err})
		return
	}
	if len(data) > s.maxBytes {
		s.degrade(&PersistenceError{Op: "save", Err: fmt.Errorf("%d bytes: %w", len(data), ErrQuotaExceeded)})
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.degrade(&PersistenceError{Op: "save", Err: err})
	}
}

func (s *Store) degrade(err error) {
	s.degraded = true
	s.lastErr = err
	log.Printf("[InventoryStore] %v; continuing in memory only", err)
}
