package usecase

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	domainAnalytics "github.com/qualens/qualens/domains/analytics"
	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	domainConnection "github.com/qualens/qualens/domains/connection"
	domainDashboard "github.com/qualens/qualens/domains/dashboard"
	domainValidation "github.com/qualens/qualens/domains/validation"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceDashboard struct {
	api         *api.Client
	connections domainConnection.IConnectionUsecase
}

func NewDashboardService(apiClient *api.Client, connections domainConnection.IConnectionUsecase) domainDashboard.IDashboardUsecase {
	return &serviceDashboard{api: apiClient, connections: connections}
}

// Overview fans out the landing-view reads and assembles whatever came
// back. Section failures become warnings, not a total rejection; only a
// cancellation aborts the whole fetch.
func (s *serviceDashboard) Overview(ctx context.Context, connectionID string) (domainDashboard.Overview, error) {
	var overview domainDashboard.Overview

	g, gctx := errgroup.WithContext(ctx)

	var connErr error
	g.Go(func() error {
		overview.Connections, connErr = s.connections.List(gctx)
		if pkgError.IsCancelled(connErr) {
			return connErr
		}
		return nil
	})

	var results map[string]api.BatchResult
	var batchErr error
	if connectionID != "" {
		g.Go(func() error {
			results, batchErr = s.api.Batch(gctx, []api.BatchRequest{
				{ID: "score", Path: "/analytics/quality-score", Params: map[string]any{"connection_id": connectionID}},
				{ID: "validations", Path: "/validations/summary", Params: map[string]any{"connection_id": connectionID}},
				{ID: "anomalies", Path: "/anomalies", Params: map[string]any{"connection_id": connectionID}},
			})
			if pkgError.IsCancelled(batchErr) {
				return batchErr
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return overview, err
	}

	if connErr != nil {
		overview.Warnings = append(overview.Warnings, "connections: "+connErr.Error())
	}
	if batchErr != nil {
		overview.Warnings = append(overview.Warnings, "batch: "+batchErr.Error())
	}

	if r, ok := results["score"]; ok {
		if r.Failed() {
			overview.Warnings = append(overview.Warnings, "quality score: "+r.Error.Message)
		} else {
			var score domainAnalytics.QualityScore
			if json.Unmarshal(r.Data, &score) == nil {
				overview.Score = &score
			}
		}
	}

	if r, ok := results["validations"]; ok {
		if r.Failed() {
			overview.Warnings = append(overview.Warnings, "validations: "+r.Error.Message)
		} else {
			var summary domainValidation.Summary
			if json.Unmarshal(r.Data, &summary) == nil {
				overview.Validations = &summary
			}
		}
	}

	if r, ok := results["anomalies"]; ok {
		if r.Failed() {
			overview.Warnings = append(overview.Warnings, "anomalies: "+r.Error.Message)
		} else if anomalies, err := decodeList[domainAnomaly.Anomaly](r.Data, "anomalies"); err == nil {
			overview.Anomalies = anomalies
		}
	}

	return overview, nil
}
