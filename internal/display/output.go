// Package display holds the output area a view renders into.
package display

import (
	"sync"

	"github.com/google/uuid"
)

// Kind describes what an output area currently shows.
type Kind string

const (
	KindPlaceholder Kind = "placeholder"
	KindChart       Kind = "chart"
	KindTable       Kind = "table"
)

// Item is one rendered frame.
type Item struct {
	Kind   Kind
	Title  string
	DataID string
	Text   string
}

// Output is a clearable render target. It is safe for concurrent use.
type Output struct {
	mu      sync.Mutex
	id      uuid.UUID
	current Item
	dataID  string
	draws   int
}

// NewOutput creates an empty output area with a fresh id.
func NewOutput() *Output {
	return &Output{id: uuid.New(), current: Item{Kind: KindPlaceholder}}
}

// UUID identifies this output area.
func (o *Output) UUID() string {
	return o.id.String()
}

// Clear resets the output to an empty placeholder.
func (o *Output) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = Item{Kind: KindPlaceholder}
}

// Show replaces the displayed item.
func (o *Output) Show(item Item) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = item
	o.draws++
}

// Current returns the displayed item.
func (o *Output) Current() Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// DataID is the external id of the table currently displayed, if any.
func (o *Output) DataID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dataID
}

// SetDataID records the external id of the displayed table.
func (o *Output) SetDataID(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dataID = id
}

// Draws counts calls to Show.
func (o *Output) Draws() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draws
}
