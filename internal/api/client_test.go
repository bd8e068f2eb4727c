package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/autoplot/internal/series"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "apt_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"data": data})
	return b
}

func sampleFrame() *series.Frame {
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	return &series.Frame{
		Index: []any{start, start.Add(time.Hour)},
		Columns: []series.Column{
			{Name: "a", Values: []any{1.5, math.NaN()}},
			{Name: "b", Values: []any{2, 3}},
		},
	}
}

func TestCreateTable(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/data", r.URL.Path)
		assert.Equal(t, "Bearer apt_testkey", r.Header.Get("Authorization"))

		var body CreateTableInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "df", body.Name)
		assert.Equal(t, []any{"2022-05-01T00:00:00Z", "2022-05-01T01:00:00Z"}, body.Table.Index)
		require.Len(t, body.Table.Columns, 2)
		assert.Equal(t, []any{1.5, nil}, body.Table.Columns[0].Values)
		w.Write(jsonResponse(map[string]any{"data_id": "7"}))
	})

	id, err := client.Create("df", sampleFrame())
	require.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestCreateTableRequiresID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(jsonResponse(map[string]any{}))
	})

	_, err := client.Create("df", sampleFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_id")
}

func TestUpdateSendsSeriesAsValueColumn(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/data/3", r.URL.Path)

		var body UpdateTableInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Table.Columns, 1)
		assert.Equal(t, SeriesColumn, body.Table.Columns[0].Name)
		assert.Equal(t, []any{float64(4)}, body.Table.Columns[0].Values)
		w.Write(jsonResponse(map[string]any{"data_id": "3"}))
	})

	err := client.Update("3", &series.Series{Index: []any{"r0"}, Values: []any{4}})
	require.NoError(t, err)
}

func TestExists(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/api/data/1":
			w.Write(jsonResponse(map[string]any{"data_id": "1"}))
		case "/api/data/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"viewer crashed"}`))
		}
	})

	ok, err := client.Exists("1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists("2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.Exists("3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewer crashed")
}

func TestCleanupIgnoresMissingTables(t *testing.T) {
	var deletes atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deletes.Add(1)
		if r.URL.Path == "/api/data/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Cleanup("1"))
	require.NoError(t, client.Cleanup("gone"))
	assert.Equal(t, int32(2), deletes.Load())
}

func TestIDs(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data", r.URL.Path)
		w.Write(jsonResponse([]map[string]any{
			{"data_id": "2", "name": "x"},
			{"data_id": "5", "name": "y"},
		}))
	})

	ids, err := client.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5"}, ids)
}

func TestHTTPError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		b, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    "CONFLICT",
				"message": "table locked",
			},
		})
		w.Write(b)
	})

	err := client.Update("1", sampleFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFLICT: table locked")
}

func TestClientHandlesMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.IDs()
	require.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	msg, ok := errorMessage([]byte(`{"error":"boom"}`))
	assert.True(t, ok)
	assert.Equal(t, "boom", msg)

	msg, ok = errorMessage([]byte(`{"detail":{"code":"BAD"}}`))
	assert.True(t, ok)
	assert.Equal(t, "BAD", msg)

	msg, ok = errorMessage([]byte(`{"error":{"message":" locked "}}`))
	assert.True(t, ok)
	assert.Equal(t, "locked", msg)

	_, ok = errorMessage([]byte(`{"error":""}`))
	assert.False(t, ok)

	_, ok = errorMessage(nil)
	assert.False(t, ok)
}

func TestHTTPErrorWithoutEnvelope(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down\n"))
	})

	err := client.Cleanup("1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502: upstream down")
}

func TestListWithoutAuth(t *testing.T) {
	var gotURL string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Path
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write(jsonResponse([]map[string]any{{"data_id": "1"}}))
	})
	client.token = ""

	ids, err := client.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
	assert.Equal(t, "/api/data", gotURL)
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com/", "", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://example.com", client.baseURL)
}

func TestClientConcurrentRequests(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := count.Add(1)
		w.Write(jsonResponse(map[string]any{"data_id": fmt.Sprint(n)}))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := client.Create(fmt.Sprintf("t%d", idx), sampleFrame())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}
