package analytics

import (
	"context"
	"time"
)

type IAnalyticsUsecase interface {
	QualityScore(ctx context.Context, connectionID, table string) (QualityScore, error)
	Trends(ctx context.Context, connectionID string, days int) ([]TrendPoint, error)
	Dimensions(ctx context.Context, connectionID string) ([]Dimension, error)
}

// QualityScore is the backend's 0-100 composite for a connection or a
// single table (empty table means connection-wide).
type QualityScore struct {
	ConnectionID string    `json:"connection_id"`
	TableName    string    `json:"table_name,omitempty"`
	Score        float64   `json:"score"`
	Grade        string    `json:"grade"` // "A".."F"
	ComputedAt   time.Time `json:"computed_at"`
}

type TrendPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Score float64 `json:"score"`
}

// Dimension is one component of the composite score, e.g. completeness or
// freshness.
type Dimension struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
