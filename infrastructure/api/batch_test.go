package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgError "github.com/qualens/qualens/pkg/error"
)

func TestBatchPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/batch", r.URL.Path)

		var body batchBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Requests, 2)

		_, _ = w.Write([]byte(`{"data":{"results":[
			{"id":"conns","data":[{"id":"c1"}]},
			{"id":"score","error":{"code":"upstream_down","message":"warehouse unreachable"}}
		]}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	results, err := client.Batch(context.Background(), []BatchRequest{
		{ID: "conns", Path: "/connections"},
		{ID: "score", Path: "/analytics/quality-score", Params: map[string]any{"connection_id": "c1"}},
	})
	require.NoError(t, err, "sub-request failures must not fail the batch")
	require.Len(t, results, 2)

	assert.False(t, results["conns"].Failed())
	assert.JSONEq(t, `[{"id":"c1"}]`, string(results["conns"].Data))

	assert.True(t, results["score"].Failed())
	assert.Equal(t, "upstream_down", results["score"].Error.Code)
}

func TestBatchRetriesOnceAfter401(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"results":[{"id":"a","data":{}}]}}`))
	}))
	defer server.Close()

	session := &stubSession{token: "refreshing"}
	var notified atomic.Int32
	client := New(Config{
		BaseURL:       server.URL,
		Session:       session,
		OnSignOut:     func() { notified.Add(1) },
		Batch401Delay: 10 * time.Millisecond,
	})

	results, err := client.Batch(context.Background(), []BatchRequest{{ID: "a", Path: "/x"}})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(0), notified.Load(), "a transient 401 must not force sign-out")
}

func TestBatchPersistent401ForcesSignOut(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := &stubSession{token: "stale"}
	var notified atomic.Int32
	client := New(Config{
		BaseURL:       server.URL,
		Session:       session,
		OnSignOut:     func() { notified.Add(1) },
		Batch401Delay: 5 * time.Millisecond,
	})

	_, err := client.Batch(context.Background(), []BatchRequest{{Path: "/x"}})
	require.Error(t, err)
	assert.True(t, pkgError.IsUnauthorized(err))
	assert.Equal(t, int32(2), hits.Load(), "one retry, then give up")
	assert.Equal(t, int32(1), notified.Load())
}

func TestBatchAssignsMissingIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body batchBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Requests, 1)
		assert.NotEmpty(t, body.Requests[0].ID)

		results := []BatchResult{{ID: body.Requests[0].ID, Data: json.RawMessage(`{}`)}}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"results": results}})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	results, err := client.Batch(context.Background(), []BatchRequest{{Path: "/connections"}})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBatchEmptyInput(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:0"})
	results, err := client.Batch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
