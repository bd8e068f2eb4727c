package dtaler

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/gravitrone/autoplot/internal/series"
)

// MemoryStore is an in-process Store. Ids are assigned sequentially from 1.
type MemoryStore struct {
	mu     sync.Mutex
	next   int
	tables map[string]memTable
}

type memTable struct {
	name  string
	value series.Value
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]memTable)}
}

// Create stores v under a new id.
func (s *MemoryStore) Create(name string, v series.Value) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := strconv.Itoa(s.next)
	s.tables[id] = memTable{name: name, value: v}
	return id, nil
}

// Update replaces the table behind id.
func (s *MemoryStore) Update(id string, v series.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return fmt.Errorf("update table %s: not found", id)
	}
	t.value = v
	s.tables[id] = t
	return nil
}

// Exists reports whether id is still stored.
func (s *MemoryStore) Exists(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tables[id]
	return ok, nil
}

// Cleanup removes id. Removing a missing id is not an error.
func (s *MemoryStore) Cleanup(id string) error {
	s.Drop(id)
	return nil
}

// IDs lists stored ids in creation order.
func (s *MemoryStore) IDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids, nil
}

// Drop deletes a table as if the user closed it in the viewer.
func (s *MemoryStore) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}

// Get returns the stored name and value of id.
func (s *MemoryStore) Get(id string) (string, series.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	return t.name, t.value, ok
}
