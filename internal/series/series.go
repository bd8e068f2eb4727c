package series

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrDuplicateName is returned when a snapshot lists the same variable twice.
var ErrDuplicateName = errors.New("duplicate variable name")

// ColumnFormat builds the entity name of a table column.
const ColumnFormat = "%s (%s)"

// --- Namespace Values ---

// Value is implemented by the namespace types autoplot knows how to track.
type Value interface {
	isValue()
	Len() int
}

// Series is a one-dimensional indexed sequence. Index entries are expected to
// be time.Time and values real numbers, but any scalar may appear.
type Series struct {
	Index  []any
	Values []any
}

func (*Series) isValue() {}

// Len returns the number of values.
func (s *Series) Len() int { return len(s.Values) }

// Column is a single named column of a Frame.
type Column struct {
	Name   string
	Values []any
}

// Frame is a table of columns sharing one index.
type Frame struct {
	Index   []any
	Columns []Column
}

func (*Frame) isValue() {}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// Column returns the named column as a Series sharing the frame's index.
func (f *Frame) Column(name string) (*Series, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return &Series{Index: f.Index, Values: c.Values}, true
		}
	}
	return nil, false
}

// ColumnName returns the entity name for a table column, e.g. "df (a)".
func ColumnName(table, column string) string {
	return fmt.Sprintf(ColumnFormat, table, column)
}

// --- Snapshot ---

// Variable is one entry of a namespace snapshot.
type Variable struct {
	Name  string
	Value any
}

// Snapshot is an ordered view of a namespace. Order is insertion order.
type Snapshot []Variable

// Provider supplies namespace snapshots. Unchanged variables must yield the
// same value reference across calls.
type Provider interface {
	Snapshot() Snapshot
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() Snapshot

// Snapshot calls f.
func (f ProviderFunc) Snapshot() Snapshot { return f() }

// Validate reports structural problems with the snapshot.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}

// Names returns the variable names in order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.Name
	}
	return names
}

// Lookup returns the value stored under name.
func (s Snapshot) Lookup(name string) (any, bool) {
	for _, v := range s {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

// RemoveQuotes strips one pair of matching surrounding quotes from a name
// typed on the command line.
func RemoveQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// DefaultReserved lists names that are never tracked.
var DefaultReserved = []string{"In", "Out", "get_ipython", "exit", "quit", "pd"}

// Filter drops private and reserved names and anything that is not a Value.
func Filter(s Snapshot, reserved map[string]struct{}) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, v := range s {
		if v.Name == "" || strings.HasPrefix(v.Name, "_") {
			continue
		}
		if _, ok := reserved[v.Name]; ok {
			continue
		}
		if _, ok := v.Value.(Value); !ok {
			continue
		}
		out = append(out, v)
	}
	return out
}

// --- Time Series Data ---

// Point is a single timestamped observation.
type Point struct {
	Time  time.Time
	Value float64
}

// Data is a validated, strictly time-ordered numeric sequence.
type Data []Point

// Equal reports whether both the index and the values match. NaN equals NaN.
func (d Data) Equal(other Data) bool {
	return d.IndexEqual(other) && d.ValuesEqual(other)
}

// IndexEqual compares timestamps only.
func (d Data) IndexEqual(other Data) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Time.Equal(other[i].Time) {
			return false
		}
	}
	return true
}

// ValuesEqual compares values only.
func (d Data) ValuesEqual(other Data) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		a, b := d[i].Value, other[i].Value
		if a == b || (math.IsNaN(a) && math.IsNaN(b)) {
			continue
		}
		return false
	}
	return true
}

// Span returns the first and last timestamps.
func (d Data) Span() (time.Time, time.Time) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}
	}
	return d[0].Time, d[len(d)-1].Time
}

// Step returns the gap between the first two points.
func (d Data) Step() time.Duration {
	if len(d) < 2 {
		return 0
	}
	return d[1].Time.Sub(d[0].Time)
}
