package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualens/qualens/infrastructure/cache"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type stubSession struct {
	token    string
	tokenErr error
	signOuts atomic.Int32
}

func (s *stubSession) AccessToken(ctx context.Context) (string, error) {
	return s.token, s.tokenErr
}

func (s *stubSession) SignOut(ctx context.Context) error {
	s.signOuts.Add(1)
	return nil
}

func TestDoServesGetFromCacheUntilExpiry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"c1"}]}`))
	}))
	defer server.Close()

	client := New(Config{
		BaseURL: server.URL,
		Session: &stubSession{token: "token-123"},
		Cache:   cache.New(cache.Options{DefaultTTL: time.Minute}),
	})

	opts := RequestOptions{
		Path:     "/connections",
		CacheKey: "connections.list",
		TTL:      40 * time.Millisecond,
	}

	first, err := client.Do(context.Background(), opts)
	require.NoError(t, err)
	second, err := client.Do(context.Background(), opts)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int32(1), hits.Load(), "second read should come from cache")

	time.Sleep(60 * time.Millisecond)

	_, err = client.Do(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "expired entry should trigger a refetch")
}

func TestDoForceRefreshBypassesCacheRead(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":{"n":1}}`))
	}))
	defer server.Close()

	client := New(Config{
		BaseURL: server.URL,
		Cache:   cache.New(cache.Options{DefaultTTL: time.Minute}),
	})

	opts := RequestOptions{Path: "/stats", CacheKey: "analytics.stats"}
	_, err := client.Do(context.Background(), opts)
	require.NoError(t, err)

	opts.ForceRefresh = true
	_, err = client.Do(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestDoMutationInvalidatesPrefixes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"c1"}}`))
	}))
	defer server.Close()

	store := cache.New(cache.Options{DefaultTTL: time.Minute})
	store.Set("connections.list", []byte(`[]`), 0)
	store.Set("connections.get.c1", []byte(`{}`), 0)
	store.Set("schema.tables", []byte(`[]`), 0)

	client := New(Config{BaseURL: server.URL, Cache: store})

	_, err := client.Do(context.Background(), RequestOptions{
		Method:     http.MethodPost,
		Path:       "/connections",
		Body:       map[string]string{"name": "prod"},
		Invalidate: []string{"connections."},
	})
	require.NoError(t, err)

	_, ok := store.Get("connections.list")
	assert.False(t, ok)
	_, ok = store.Get("connections.get.c1")
	assert.False(t, ok)
	_, ok = store.Get("schema.tables")
	assert.True(t, ok, "unrelated prefixes must survive")
}

func TestDoConcurrent401sForceSignOutOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"token_expired","message":"JWT expired"}}`))
	}))
	defer server.Close()

	session := &stubSession{token: "stale"}
	var notified atomic.Int32
	client := New(Config{
		BaseURL:   server.URL,
		Session:   session,
		OnSignOut: func() { notified.Add(1) },
	})

	const parallel = 8
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Do(context.Background(), RequestOptions{
				Path:      "/validations",
				RequestID: string(rune('a' + i)),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		assert.True(t, pkgError.IsUnauthorized(err))
	}
	assert.Equal(t, int32(1), notified.Load(), "exactly one redirect-to-login")
	assert.Equal(t, int32(1), session.signOuts.Load())

	// A fresh sign-in rearms the guard for the next authenticated period.
	client.RearmSignOut()
	_, err := client.Do(context.Background(), RequestOptions{Path: "/validations"})
	require.Error(t, err)
	assert.Equal(t, int32(2), notified.Load())
}

func TestDoClassifiesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Do(context.Background(), RequestOptions{
		Path:    "/profiling/run",
		Timeout: 25 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, pkgError.IsTimeout(err))
}

func TestDoClassifiesStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":"rbac","message":"viewer role cannot mutate"}}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/invalid":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"code":"bad_rule","message":"threshold must be positive"}}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Do(context.Background(), RequestOptions{Path: "/forbidden"})
	var fe pkgError.ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "viewer role")

	_, err = client.Do(context.Background(), RequestOptions{Path: "/missing"})
	var nf pkgError.NotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = client.Do(context.Background(), RequestOptions{Path: "/invalid"})
	var ve pkgError.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "threshold")

	_, err = client.Do(context.Background(), RequestOptions{Path: "/boom"})
	var se pkgError.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode())
}

func TestDoRetriesPerPolicy(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer server.Close()

	client := New(Config{
		BaseURL: server.URL,
		Retry: RetryPolicy{
			MaxAttempts: 2,
			Backoff:     5 * time.Millisecond,
			Retryable: func(status int, err error) bool {
				return status >= 500
			},
		},
	})

	payload, err := client.Do(context.Background(), RequestOptions{Path: "/flaky"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetJSONDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"c1","name":"prod"}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), RequestOptions{Path: "/connections/c1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "prod", out.Name)
}
