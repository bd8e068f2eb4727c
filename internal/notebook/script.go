package notebook

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/autoplot/internal/series"
)

// Defaults for generated indexes.
var (
	DefaultStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultStep  = time.Hour
)

// Script is a replayable notebook.
type Script struct {
	Cells []Cell `yaml:"cells"`
}

// Cell is one notebook cell. Magic lines run before the ops. A cell marked
// Fail raises after its ops, so the views are not refreshed.
type Cell struct {
	Name  string   `yaml:"name,omitempty"`
	Magic []string `yaml:"magic,omitempty"`
	Run   []Op     `yaml:"run,omitempty"`
	Fail  bool     `yaml:"fail,omitempty"`
}

// Op mutates the namespace. Exactly one of Set, Append, Touch and Delete is
// set.
type Op struct {
	Set    string `yaml:"set,omitempty"`
	Append string `yaml:"append,omitempty"`
	Touch  string `yaml:"touch,omitempty"`
	Delete string `yaml:"delete,omitempty"`

	Series *SeriesSpec `yaml:"series,omitempty"`
	Frame  *FrameSpec  `yaml:"frame,omitempty"`
	Scalar any         `yaml:"scalar,omitempty"`

	// Values to append.
	Values []any `yaml:"values,omitempty"`
}

// IndexSpec describes a generated time index, or an explicit one.
type IndexSpec struct {
	Start string   `yaml:"start,omitempty"`
	Step  string   `yaml:"step,omitempty"`
	Index []string `yaml:"index,omitempty"`
}

// SeriesSpec builds a series.Series.
type SeriesSpec struct {
	IndexSpec `yaml:",inline"`
	Values    []any `yaml:"values"`
}

// ColumnSpec is one frame column.
type ColumnSpec struct {
	Name   string `yaml:"name"`
	Values []any  `yaml:"values"`
}

// FrameSpec builds a series.Frame.
type FrameSpec struct {
	IndexSpec `yaml:",inline"`
	Columns   []ColumnSpec `yaml:"columns"`
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, c := range s.Cells {
		for j, op := range c.Run {
			if err := op.validate(); err != nil {
				return nil, fmt.Errorf("cell %d op %d: %w", i+1, j+1, err)
			}
		}
	}
	return &s, nil
}

func (o Op) validate() error {
	n := 0
	for _, target := range []string{o.Set, o.Append, o.Touch, o.Delete} {
		if target != "" {
			n++
		}
	}
	if n != 1 {
		return errors.New("op needs exactly one of set, append, touch, delete")
	}
	if o.Set != "" {
		values := 0
		if o.Series != nil {
			values++
		}
		if o.Frame != nil {
			values++
		}
		if o.Scalar != nil {
			values++
		}
		if values != 1 {
			return fmt.Errorf("set %s: needs exactly one of series, frame, scalar", o.Set)
		}
	}
	if o.Append != "" && len(o.Values) == 0 {
		return fmt.Errorf("append %s: no values", o.Append)
	}
	return nil
}

// Apply runs the op against ns.
func (o Op) Apply(ns *Namespace) error {
	switch {
	case o.Set != "":
		v, err := o.value()
		if err != nil {
			return fmt.Errorf("set %s: %w", o.Set, err)
		}
		ns.Set(o.Set, v)
	case o.Append != "":
		cur, ok := ns.Get(o.Append)
		if !ok {
			return fmt.Errorf("append %s: name is not defined", o.Append)
		}
		v, err := appendValues(cur, o.Values)
		if err != nil {
			return fmt.Errorf("append %s: %w", o.Append, err)
		}
		ns.Set(o.Append, v)
	case o.Touch != "":
		cur, ok := ns.Get(o.Touch)
		if !ok {
			return fmt.Errorf("touch %s: name is not defined", o.Touch)
		}
		ns.Set(o.Touch, clone(cur))
	case o.Delete != "":
		if !ns.Delete(o.Delete) {
			return fmt.Errorf("delete %s: name is not defined", o.Delete)
		}
	}
	return nil
}

func (o Op) value() (any, error) {
	switch {
	case o.Series != nil:
		index, err := o.Series.build(len(o.Series.Values))
		if err != nil {
			return nil, err
		}
		return &series.Series{Index: index, Values: numbers(o.Series.Values)}, nil
	case o.Frame != nil:
		rows := 0
		for _, c := range o.Frame.Columns {
			rows = max(rows, len(c.Values))
		}
		index, err := o.Frame.build(rows)
		if err != nil {
			return nil, err
		}
		f := &series.Frame{Index: index}
		for _, c := range o.Frame.Columns {
			if len(c.Values) != rows {
				return nil, fmt.Errorf("column %s has %d values, want %d", c.Name, len(c.Values), rows)
			}
			f.Columns = append(f.Columns, series.Column{Name: c.Name, Values: numbers(c.Values)})
		}
		return f, nil
	}
	return o.Scalar, nil
}

func (s IndexSpec) build(n int) ([]any, error) {
	if len(s.Index) > 0 {
		if len(s.Index) != n {
			return nil, fmt.Errorf("index has %d entries, want %d", len(s.Index), n)
		}
		index := make([]any, n)
		for i, raw := range s.Index {
			if t, err := parseTime(raw); err == nil {
				index[i] = t
			} else {
				index[i] = raw
			}
		}
		return index, nil
	}

	start, step := DefaultStart, DefaultStep
	if s.Start != "" {
		t, err := parseTime(s.Start)
		if err != nil {
			return nil, err
		}
		start = t
	}
	if s.Step != "" {
		d, err := time.ParseDuration(s.Step)
		if err != nil {
			return nil, fmt.Errorf("parse step: %w", err)
		}
		step = d
	}
	index := make([]any, n)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * step)
	}
	return index, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unsupported layout", s)
}

// numbers maps YAML nulls to NaN.
func numbers(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// appendValues returns a new value with values added to the end. A frame
// gets the same values in every column.
func appendValues(cur any, values []any) (any, error) {
	vals := numbers(values)
	switch v := cur.(type) {
	case *series.Series:
		index, err := extendIndex(v.Index, len(vals))
		if err != nil {
			return nil, err
		}
		return &series.Series{Index: index, Values: append(cloneSlice(v.Values), vals...)}, nil
	case *series.Frame:
		index, err := extendIndex(v.Index, len(vals))
		if err != nil {
			return nil, err
		}
		f := &series.Frame{Index: index}
		for _, c := range v.Columns {
			f.Columns = append(f.Columns, series.Column{Name: c.Name, Values: append(cloneSlice(c.Values), vals...)})
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot append to %T", cur)
}

// extendIndex continues a time index by its last step.
func extendIndex(index []any, n int) ([]any, error) {
	out := cloneSlice(index)
	step := DefaultStep
	var last time.Time
	switch {
	case len(index) == 0:
		last = DefaultStart.Add(-step)
	default:
		t, ok := index[len(index)-1].(time.Time)
		if !ok {
			return nil, errors.New("index is not a time index")
		}
		last = t
		if len(index) > 1 {
			if prev, ok := index[len(index)-2].(time.Time); ok && t.After(prev) {
				step = t.Sub(prev)
			}
		}
	}
	for i := 1; i <= n; i++ {
		out = append(out, last.Add(time.Duration(i)*step))
	}
	return out, nil
}

// clone returns a new object with the same contents.
func clone(v any) any {
	switch x := v.(type) {
	case *series.Series:
		return &series.Series{Index: cloneSlice(x.Index), Values: cloneSlice(x.Values)}
	case *series.Frame:
		f := &series.Frame{Index: cloneSlice(x.Index)}
		for _, c := range x.Columns {
			f.Columns = append(f.Columns, series.Column{Name: c.Name, Values: cloneSlice(c.Values)})
		}
		return f
	}
	return v
}

func cloneSlice(in []any) []any {
	out := make([]any, len(in), len(in)+1)
	copy(out, in)
	return out
}
