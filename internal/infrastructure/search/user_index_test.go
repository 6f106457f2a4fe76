package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

// fakeES answers like an Elasticsearch 8 node for index and search calls.
func fakeES(t *testing.T, seen *[]string) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*seen = append(*seen, r.Method+" "+r.URL.Path+" "+string(body))
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, `{"hits":{"hits":[{"_source":{"id":"u1","name":"Ann","email":"ann@x.com","role":"user","status":"active"}}]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestUserIndexOmitsPassword(t *testing.T) {
	var seen []string
	idx := NewUserIndex(fakeES(t, &seen), "users")

	u := &entity.User{ID: "u1", Name: "Ann", Email: "ann@x.com", Password: "$2a$hash", Role: entity.RoleUser, Status: entity.StatusActive, CreatedAt: time.Now()}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, idx.Index(ctx, u))

	require.Len(t, seen, 1)
	assert.Contains(t, seen[0], "/users/_doc/u1")
	assert.NotContains(t, seen[0], "$2a$hash")
}

func TestUserIndexSearch(t *testing.T) {
	var seen []string
	idx := NewUserIndex(fakeES(t, &seen), "users")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	users, err := idx.Search(ctx, " ann ", 500)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ann@x.com", users[0].Email)
	assert.Equal(t, entity.StatusActive, users[0].Status)

	require.Len(t, seen, 1)
	_, body, _ := strings.Cut(seen[0], " /users/_search ")
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &q))
	assert.EqualValues(t, 10, q["size"])
}
