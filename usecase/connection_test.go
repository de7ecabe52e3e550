package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainConnection "github.com/qualens/qualens/domains/connection"
	"github.com/qualens/qualens/infrastructure/api"
	"github.com/qualens/qualens/infrastructure/cache"
	pkgError "github.com/qualens/qualens/pkg/error"
)

func newAPIClient(t *testing.T, handler http.Handler) (*api.Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	return api.New(api.Config{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		Cache:   cache.New(cache.Options{DefaultTTL: time.Minute}),
	}), &hits
}

func TestConnectionListCachesAndCreateInvalidates(t *testing.T) {
	client, hits := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":{"connections":[{"id":"c1","name":"prod","type":"postgres","database":"warehouse","status":"connected"}]}}`))
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"data":{"id":"c2","name":"staging","type":"postgres","database":"warehouse","status":"pending"}}`))
		}
	}))
	svc := NewConnectionService(client)

	conns, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "prod", conns[0].Name)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second list is served from cache")

	created, err := svc.Create(context.Background(), domainConnection.CreateRequest{
		Name:     "staging",
		Type:     "postgres",
		Host:     "db.staging",
		Port:     5432,
		Database: "warehouse",
	})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "create invalidates the list cache")
}

func TestConnectionCreateValidatesBeforeNetwork(t *testing.T) {
	client, hits := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an invalid payload")
	}))
	svc := NewConnectionService(client)

	_, err := svc.Create(context.Background(), domainConnection.CreateRequest{Type: "postgres"})
	require.Error(t, err)
	var ve pkgError.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, int32(0), hits.Load())
}

func TestConnectionListDecodesLegacyShapes(t *testing.T) {
	client, _ := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pre-envelope bare array.
		_, _ = w.Write([]byte(`[{"id":"c1","name":"prod"}]`))
	}))
	svc := NewConnectionService(client)

	conns, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "c1", conns[0].ID)
}

func TestConnectionProbeDSNSqlite(t *testing.T) {
	client, _ := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	svc := NewConnectionService(client)

	err := svc.ProbeDSN(context.Background(), domainConnection.CreateRequest{
		Name:     "local",
		Type:     "sqlite",
		Database: t.TempDir() + "/probe.db",
	})
	assert.NoError(t, err)
}
