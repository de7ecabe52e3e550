package usecase

import (
	"context"
	"net/http"
	"net/url"

	domainMetadata "github.com/qualens/qualens/domains/metadata"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceMetadata struct {
	api *api.Client
}

func NewMetadataService(apiClient *api.Client) domainMetadata.IMetadataUsecase {
	return &serviceMetadata{api: apiClient}
}

// Refresh queues a metadata crawl; stale schema and profile caches are
// dropped so the next read sees the recrawled data.
func (s *serviceMetadata) Refresh(ctx context.Context, connectionID string) error {
	if connectionID == "" {
		return pkgError.ValidationError("connection id is required")
	}
	_, err := s.api.Do(ctx, api.RequestOptions{
		Method: http.MethodPost,
		Path:   "/metadata/refresh",
		Body:   map[string]string{"connection_id": connectionID},
		Invalidate: []string{
			"schema." + connectionID + ".",
			"profiling." + connectionID + ".",
			"metadata.",
		},
	})
	return err
}

func (s *serviceMetadata) WorkerStatus(ctx context.Context) (domainMetadata.WorkerStatus, error) {
	var status domainMetadata.WorkerStatus
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/metadata/worker",
		CacheKey: "metadata.worker",
		TTL:      ttlJobStatus,
	}, &status)
	return status, err
}

func (s *serviceMetadata) Coverage(ctx context.Context, connectionID string) (domainMetadata.Coverage, error) {
	var coverage domainMetadata.Coverage
	if connectionID == "" {
		return coverage, pkgError.ValidationError("connection id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:      "/metadata/coverage",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: "metadata.coverage." + connectionID,
		CacheKey:  "metadata.coverage." + connectionID,
		TTL:       ttlStats,
	}, &coverage)
	return coverage, err
}
