package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.URL.Path] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.1"},"tagline":"You Know, for Search"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_id":"p1","_source":{"name":"Shirt"}}]}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"}}`))
	default:
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newTestClient(t *testing.T) (*Client, *fakeES) {
	t.Helper()
	fake := &fakeES{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, fake
}

func TestClient_IndexAndSearch(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Index(ctx, "products", "p1", map[string]string{"name": "Shirt"}))
	assert.JSONEq(t, `{"name":"Shirt"}`, fake.bodies["/products/_doc/p1"])

	res, err := c.Search(ctx, "products", map[string]interface{}{"query": map[string]interface{}{"match_all": map[string]interface{}{}}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(res.Hits.Hits[0].Source, &doc))
	assert.Equal(t, "Shirt", doc["name"])
}

func TestClient_ToleratesExistingIndexAndMissingDocument(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	assert.NoError(t, c.CreateIndex(ctx, "products", `{"mappings":{}}`))
	assert.NoError(t, c.Delete(ctx, "products", "missing"))
}
