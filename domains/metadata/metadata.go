package metadata

import (
	"context"
	"time"
)

type IMetadataUsecase interface {
	Refresh(ctx context.Context, connectionID string) error
	WorkerStatus(ctx context.Context) (WorkerStatus, error)
	Coverage(ctx context.Context, connectionID string) (Coverage, error)
}

// WorkerStatus reflects the backend metadata worker, which crawls schemas
// and keeps table statistics fresh.
type WorkerStatus struct {
	State      string    `json:"state"` // "idle", "crawling", "paused"
	QueueDepth int       `json:"queue_depth"`
	LastRunAt  time.Time `json:"last_run_at,omitempty"`
}

type Coverage struct {
	TablesTotal    int     `json:"tables_total"`
	TablesProfiled int     `json:"tables_profiled"`
	Percent        float64 `json:"percent"`
}
