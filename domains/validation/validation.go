package validation

import (
	"context"
	"time"
)

type IValidationUsecase interface {
	ListRules(ctx context.Context, connectionID string) ([]Rule, error)
	CreateRule(ctx context.Context, request CreateRuleRequest) (Rule, error)
	UpdateRule(ctx context.Context, id string, request UpdateRuleRequest) (Rule, error)
	DeleteRule(ctx context.Context, id string) error
	RunRules(ctx context.Context, connectionID string) (Run, error)
	Results(ctx context.Context, connectionID string) ([]Result, error)
	Summary(ctx context.Context, connectionID string) (Summary, error)
}

// Rule is a user-defined data-quality check, e.g. "null rate of
// orders.customer_id must stay below 1%".
type Rule struct {
	ID           string         `json:"id"`
	ConnectionID string         `json:"connection_id"`
	TableName    string         `json:"table_name"`
	ColumnName   string         `json:"column_name,omitempty"`
	RuleType     string         `json:"rule_type"` // "not_null", "unique", "range", "regex", "freshness", "row_count"
	Config       map[string]any `json:"config,omitempty"`
	Severity     string         `json:"severity"` // "info", "warning", "critical"
	Enabled      bool           `json:"enabled"`
	CreatedAt    time.Time      `json:"created_at"`
}

type CreateRuleRequest struct {
	ConnectionID string         `json:"connection_id"`
	TableName    string         `json:"table_name"`
	ColumnName   string         `json:"column_name,omitempty"`
	RuleType     string         `json:"rule_type"`
	Config       map[string]any `json:"config,omitempty"`
	Severity     string         `json:"severity"`
}

type UpdateRuleRequest struct {
	ColumnName string         `json:"column_name,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	Severity   string         `json:"severity,omitempty"`
	Enabled    *bool          `json:"enabled,omitempty"`
}

// Run is one execution of all enabled rules for a connection.
type Run struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

type Result struct {
	ID          string    `json:"id"`
	RuleID      string    `json:"rule_id"`
	Status      string    `json:"status"` // "passed", "failed", "errored"
	FailedCount int64     `json:"failed_count"`
	TotalCount  int64     `json:"total_count"`
	Message     string    `json:"message,omitempty"`
	RanAt       time.Time `json:"ran_at"`
}

type Summary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
}
