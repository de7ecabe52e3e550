package anomaly

import (
	"context"
	"time"
)

type IAnomalyUsecase interface {
	List(ctx context.Context, connectionID string) ([]Anomaly, error)
	Configs(ctx context.Context, connectionID string) ([]Config, error)
	SaveConfig(ctx context.Context, request SaveConfigRequest) (Config, error)
	Acknowledge(ctx context.Context, id string) error
	Explain(ctx context.Context, id string) (Explanation, error)
}

// Anomaly is a statistical deviation the backend detector flagged, e.g. a
// sudden null-rate spike or a row-count drop.
type Anomaly struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connection_id"`
	TableName    string    `json:"table_name"`
	ColumnName   string    `json:"column_name,omitempty"`
	Metric       string    `json:"metric"` // "row_count", "null_rate", "distinct_count", "freshness"
	Severity     string    `json:"severity"`
	Observed     float64   `json:"observed"`
	Expected     float64   `json:"expected"`
	Status       string    `json:"status"` // "open", "acknowledged"
	DetectedAt   time.Time `json:"detected_at"`
}

type Config struct {
	ID           string  `json:"id"`
	ConnectionID string  `json:"connection_id"`
	TableName    string  `json:"table_name,omitempty"`
	Metric       string  `json:"metric"`
	Sensitivity  float64 `json:"sensitivity"`
	Enabled      bool    `json:"enabled"`
}

type SaveConfigRequest struct {
	ID           string  `json:"id,omitempty"`
	ConnectionID string  `json:"connection_id"`
	TableName    string  `json:"table_name,omitempty"`
	Metric       string  `json:"metric"`
	Sensitivity  float64 `json:"sensitivity"`
	Enabled      bool    `json:"enabled"`
}

// Explanation is a model-generated narrative of a detected anomaly.
type Explanation struct {
	AnomalyID string `json:"anomaly_id"`
	Text      string `json:"text"`
	Model     string `json:"model"`
}
