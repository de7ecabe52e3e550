package automation

import (
	"context"
	"time"
)

type IAutomationUsecase interface {
	ListSchedules(ctx context.Context, connectionID string) ([]Schedule, error)
	CreateSchedule(ctx context.Context, request CreateScheduleRequest) (Schedule, error)
	UpdateSchedule(ctx context.Context, id string, request UpdateScheduleRequest) (Schedule, error)
	ToggleSchedule(ctx context.Context, id string, enabled bool) (Schedule, error)
	TriggerRun(ctx context.Context, id string) (Run, error)
	RunHistory(ctx context.Context, id string) ([]Run, error)
	GlobalStatus(ctx context.Context) (GlobalStatus, error)
}

// Schedule is a recurring backend job: profiling, validation or anomaly
// scans on a cron cadence.
type Schedule struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connection_id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"` // "profiling", "validation", "anomaly_scan"
	Cron         string    `json:"cron"`
	Enabled      bool      `json:"enabled"`
	LastRunAt    time.Time `json:"last_run_at,omitempty"`
	NextRunAt    time.Time `json:"next_run_at,omitempty"`
}

type CreateScheduleRequest struct {
	ConnectionID string `json:"connection_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Cron         string `json:"cron"`
}

type UpdateScheduleRequest struct {
	Name string `json:"name,omitempty"`
	Cron string `json:"cron,omitempty"`
}

type Run struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

type GlobalStatus struct {
	SchedulerState  string `json:"scheduler_state"` // "running", "paused"
	ActiveSchedules int    `json:"active_schedules"`
	RunningJobs     int    `json:"running_jobs"`
}
