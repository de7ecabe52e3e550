package profiling

import (
	"context"
	"time"
)

type IProfilingUsecase interface {
	ProfileTable(ctx context.Context, connectionID, table string) (Job, error)
	GetProfile(ctx context.Context, connectionID, table string) (TableProfile, error)
	LatestProfiles(ctx context.Context, connectionID string) ([]TableProfile, error)
	JobStatus(ctx context.Context, jobID string) (Job, error)
}

// Job tracks a profiling run executed by the backend worker.
type Job struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"` // "queued", "running", "done", "failed"
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

func (j Job) Finished() bool {
	return j.Status == "done" || j.Status == "failed"
}

type ColumnProfile struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	NullRate      float64 `json:"null_rate"`
	DistinctCount int64   `json:"distinct_count"`
	Min           string  `json:"min,omitempty"`
	Max           string  `json:"max,omitempty"`
	Mean          float64 `json:"mean,omitempty"`
}

type TableProfile struct {
	ConnectionID string          `json:"connection_id"`
	TableName    string          `json:"table_name"`
	RowCount     int64           `json:"row_count"`
	Columns      []ColumnProfile `json:"columns"`
	ProfiledAt   time.Time       `json:"profiled_at"`
}
