// Package notebook simulates the host kernel: a namespace of variables and
// a script of cells that mutate it.
package notebook

import (
	"slices"
	"sync"

	"github.com/gravitrone/autoplot/internal/series"
)

// Namespace is an ordered variable table. Values are stored as given, so
// replacing a variable with a new object is distinguishable from leaving it.
type Namespace struct {
	mu     sync.RWMutex
	order  []string
	values map[string]any
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set binds name to v, keeping its position if it already exists.
func (n *Namespace) Set(name string, v any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.values[name]; !ok {
		n.order = append(n.order, name)
	}
	n.values[name] = v
}

// Get returns the value bound to name.
func (n *Namespace) Get(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.values[name]
	return v, ok
}

// Delete unbinds name.
func (n *Namespace) Delete(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.values[name]; !ok {
		return false
	}
	delete(n.values, name)
	n.order = slices.DeleteFunc(n.order, func(s string) bool { return s == name })
	return true
}

// Names lists bound names in definition order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.order)
}

// Snapshot implements series.Provider.
func (n *Namespace) Snapshot() series.Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s := make(series.Snapshot, 0, len(n.order))
	for _, name := range n.order {
		s = append(s, series.Variable{Name: name, Value: n.values[name]})
	}
	return s
}
