package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gravitrone/autoplot/internal/series"
)

// --- Table Methods ---

func dataPath(id string) string {
	return "/api/data/" + url.PathEscape(id)
}

// Create uploads v as a new table and returns its id.
func (c *Client) Create(name string, v series.Value) (string, error) {
	var ref DataRef
	in := CreateTableInput{Name: name, Table: NewTable(v)}
	if _, err := c.send(http.MethodPost, "/api/data", in, &ref); err != nil {
		return "", fmt.Errorf("create table: %w", err)
	}
	if ref.DataID == "" {
		return "", fmt.Errorf("create table: response missing data_id")
	}
	return ref.DataID, nil
}

// Update replaces the contents of table id.
func (c *Client) Update(id string, v series.Value) error {
	if _, err := c.send(http.MethodPut, dataPath(id), UpdateTableInput{Table: NewTable(v)}, nil); err != nil {
		return fmt.Errorf("update table %s: %w", id, err)
	}
	return nil
}

// Exists reports whether the viewer still holds table id.
func (c *Client) Exists(id string) (bool, error) {
	status, err := c.send(http.MethodGet, dataPath(id), nil, nil)
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", id, err)
	}
	return true, nil
}

// Cleanup deletes table id. Deleting a missing table is not an error.
func (c *Client) Cleanup(id string) error {
	status, err := c.send(http.MethodDelete, dataPath(id), nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	return nil
}

// IDs lists the tables the viewer holds, in its order.
func (c *Client) IDs() ([]string, error) {
	var refs []DataRef
	if _, err := c.send(http.MethodGet, "/api/data", nil, &refs); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.DataID)
	}
	return ids, nil
}
