package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverviewToleratesPartialFailure(t *testing.T) {
	client, _ := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connections":
			_, _ = w.Write([]byte(`{"data":{"connections":[{"id":"c1","name":"prod"}]}}`))
		case "/batch":
			_, _ = w.Write([]byte(`{"data":{"results":[
				{"id":"score","data":{"connection_id":"c1","score":92.5,"grade":"A"}},
				{"id":"validations","error":{"code":"upstream_down","message":"validator unavailable"}},
				{"id":"anomalies","data":[{"id":"a1","connection_id":"c1","table_name":"orders","metric":"row_count","severity":"critical","status":"open"}]}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	svc := NewDashboardService(client, NewConnectionService(client))

	overview, err := svc.Overview(context.Background(), "c1")
	require.NoError(t, err, "a failed section must not fail the overview")

	require.Len(t, overview.Connections, 1)
	require.NotNil(t, overview.Score)
	assert.InDelta(t, 92.5, overview.Score.Score, 0.001)

	assert.Nil(t, overview.Validations)
	require.Len(t, overview.Warnings, 1)
	assert.Contains(t, overview.Warnings[0], "validator unavailable")

	require.Len(t, overview.Anomalies, 1)
	assert.Equal(t, "a1", overview.Anomalies[0].ID)
}

func TestDashboardOverviewWithoutActiveConnection(t *testing.T) {
	client, hits := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/connections", r.URL.Path, "no batch without a connection id")
		_, _ = w.Write([]byte(`{"data":{"connections":[]}}`))
	}))

	svc := NewDashboardService(client, NewConnectionService(client))

	overview, err := svc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, overview.Connections)
	assert.Nil(t, overview.Score)
	assert.Equal(t, int32(1), hits.Load())
}
