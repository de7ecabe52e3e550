package dashboard

import (
	"context"

	"github.com/qualens/qualens/domains/analytics"
	"github.com/qualens/qualens/domains/anomaly"
	"github.com/qualens/qualens/domains/connection"
	"github.com/qualens/qualens/domains/validation"
)

type IDashboardUsecase interface {
	Overview(ctx context.Context, connectionID string) (Overview, error)
}

// Overview is the composite landing view: one fan-out across facades.
// Sections that failed to load carry their error message in Warnings so the
// rest of the dashboard still renders.
type Overview struct {
	Connections []connection.Connection `json:"connections"`
	Score       *analytics.QualityScore `json:"score,omitempty"`
	Validations *validation.Summary     `json:"validations,omitempty"`
	Anomalies   []anomaly.Anomaly       `json:"anomalies"`
	Warnings    []string                `json:"warnings,omitempty"`
}
