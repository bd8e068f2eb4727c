package series

import (
	"math"
	"time"
)

// Kind tags the result of classifying a namespace value.
type Kind int

const (
	Ineligible Kind = iota
	KindSeries
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindSeries:
		return "series"
	case KindTable:
		return "table"
	default:
		return "ineligible"
	}
}

// ColumnResult is the classification of one table column.
type ColumnResult struct {
	Name     string
	Entity   string
	Eligible bool
	Data     Data
}

// Classified is the tagged classification of one variable.
type Classified struct {
	Name    string
	Kind    Kind
	Data    Data
	Columns []ColumnResult
}

// Classify classifies every variable of the snapshot, preserving order.
func Classify(s Snapshot) []Classified {
	out := make([]Classified, 0, len(s))
	for _, v := range s {
		out = append(out, ClassifyValue(v.Name, v.Value))
	}
	return out
}

// ClassifyValue classifies a single namespace value. Values that cannot be
// plotted are reported as Ineligible rather than as an error.
func ClassifyValue(name string, v any) Classified {
	switch val := v.(type) {
	case *Series:
		if data, ok := Plottable(val); ok {
			return Classified{Name: name, Kind: KindSeries, Data: data}
		}
	case *Frame:
		if val == nil {
			break
		}
		cols := make([]ColumnResult, 0, len(val.Columns))
		for _, c := range val.Columns {
			res := ColumnResult{Name: c.Name, Entity: ColumnName(name, c.Name)}
			res.Data, res.Eligible = Plottable(&Series{Index: val.Index, Values: c.Values})
			cols = append(cols, res)
		}
		return Classified{Name: name, Kind: KindTable, Columns: cols}
	}
	return Classified{Name: name, Kind: Ineligible}
}

// Plottable converts s into Data when it is time indexed, strictly increasing,
// real valued and at least two points long.
func Plottable(s *Series) (Data, bool) {
	if s == nil || len(s.Values) < 2 || len(s.Index) != len(s.Values) {
		return nil, false
	}
	data := make(Data, len(s.Values))
	for i := range s.Values {
		ts, ok := s.Index[i].(time.Time)
		if !ok {
			return nil, false
		}
		if i > 0 && !ts.After(data[i-1].Time) {
			return nil, false
		}
		f, ok := realValue(s.Values[i])
		if !ok {
			return nil, false
		}
		data[i] = Point{Time: ts, Value: f}
	}
	return data, true
}

func realValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return math.NaN(), false
}
