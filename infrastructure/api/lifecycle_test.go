package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgError "github.com/qualens/qualens/pkg/error"
)

func TestLifecycleBeginSupersedesPrevious(t *testing.T) {
	m := newLifecycleManager()

	ctx1, e1 := m.Begin(context.Background(), "connections.list")
	ctx2, e2 := m.Begin(context.Background(), "connections.list")

	select {
	case <-ctx1.Done():
		assert.ErrorIs(t, context.Cause(ctx1), errSuperseded)
	default:
		t.Fatal("first request should be cancelled by the second Begin")
	}
	assert.NoError(t, ctx2.Err())
	assert.Equal(t, 1, m.Outstanding())

	// Completing the superseded request must not evict the successor.
	m.Complete("connections.list", e1)
	assert.Equal(t, 1, m.Outstanding())

	m.Complete("connections.list", e2)
	assert.Equal(t, 0, m.Outstanding())
}

func TestLifecycleCancelAllByPrefix(t *testing.T) {
	m := newLifecycleManager()

	ctxA, _ := m.Begin(context.Background(), "profiling.table.users")
	ctxB, _ := m.Begin(context.Background(), "profiling.table.orders")
	ctxC, _ := m.Begin(context.Background(), "schema.tables")

	m.CancelAll("profiling.")

	assert.Error(t, ctxA.Err())
	assert.Error(t, ctxB.Err())
	assert.NoError(t, ctxC.Err())
	assert.Equal(t, 1, m.Outstanding())

	m.CancelAll("")
	assert.Error(t, ctxC.Err())
	assert.Equal(t, 0, m.Outstanding())
}

func TestDoSupersededRequestReturnsCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(80 * time.Millisecond):
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: 2 * time.Second})

	firstErr := make(chan error, 1)
	go func() {
		_, err := client.Do(context.Background(), RequestOptions{
			Path:      "/profiling/tables/users",
			RequestID: "profiling.table.users",
		})
		firstErr <- err
	}()

	time.Sleep(20 * time.Millisecond)

	payload, err := client.Do(context.Background(), RequestOptions{
		Path:      "/profiling/tables/users",
		RequestID: "profiling.table.users",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))

	err = <-firstErr
	require.Error(t, err)
	assert.True(t, pkgError.IsCancelled(err), "superseded request should surface as cancelled, got %v", err)
}

func TestDoCallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: 2 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Do(ctx, RequestOptions{Path: "/slow"})
	require.Error(t, err)
	assert.True(t, pkgError.IsCancelled(err))

	var ce pkgError.CancelledError
	assert.True(t, errors.As(err, &ce))
}
