package api

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/gravitrone/autoplot/internal/series"
)

// --- API Response Envelope ---

type apiResponse struct {
	Data json.RawMessage `json:"data"`
}

// apiErr is either a bare message or a {code, message} object.
type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiErr) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		e.Message = msg
		return nil
	}
	type plain apiErr
	return json.Unmarshal(data, (*plain)(e))
}

func (e *apiErr) String() string {
	if e == nil {
		return ""
	}
	code, msg := strings.TrimSpace(e.Code), strings.TrimSpace(e.Message)
	switch {
	case code != "" && msg != "":
		return code + ": " + msg
	case code != "":
		return code
	}
	return msg
}

// --- Tables ---

// DataRef identifies a table held by the viewer.
type DataRef struct {
	DataID string `json:"data_id"`
	Name   string `json:"name,omitempty"`
}

// TableColumn is one column of a Table.
type TableColumn struct {
	Name   string `json:"name"`
	Values []any  `json:"values"`
}

// Table is the wire form of a series or frame.
type Table struct {
	Index   []any         `json:"index"`
	Columns []TableColumn `json:"columns"`
}

// CreateTableInput is the body of POST /api/data.
type CreateTableInput struct {
	Name  string `json:"name"`
	Table Table  `json:"table"`
}

// UpdateTableInput is the body of PUT /api/data/{id}.
type UpdateTableInput struct {
	Table Table `json:"table"`
}

// SeriesColumn names the single column a plain series is sent as.
const SeriesColumn = "value"

// NewTable converts a namespace value into its wire form. Non-finite floats
// become null and timestamps are sent as RFC 3339 strings.
func NewTable(v series.Value) Table {
	switch val := v.(type) {
	case *series.Series:
		return Table{
			Index:   wireValues(val.Index),
			Columns: []TableColumn{{Name: SeriesColumn, Values: wireValues(val.Values)}},
		}
	case *series.Frame:
		t := Table{Index: wireValues(val.Index), Columns: make([]TableColumn, 0, len(val.Columns))}
		for _, c := range val.Columns {
			t.Columns = append(t.Columns, TableColumn{Name: c.Name, Values: wireValues(c.Values)})
		}
		return t
	}
	return Table{}
}

func wireValues(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
		case float32:
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				continue
			}
		case time.Time:
			out[i] = x.Format(time.RFC3339Nano)
			continue
		}
		out[i] = v
	}
	return out
}
