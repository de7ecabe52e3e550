package usecase

import (
	"context"
	"net/http"

	domainProfiling "github.com/qualens/qualens/domains/profiling"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceProfiling struct {
	api *api.Client
}

func NewProfilingService(apiClient *api.Client) domainProfiling.IProfilingUsecase {
	return &serviceProfiling{api: apiClient}
}

func (s *serviceProfiling) ProfileTable(ctx context.Context, connectionID, table string) (domainProfiling.Job, error) {
	var job domainProfiling.Job
	if connectionID == "" || table == "" {
		return job, pkgError.ValidationError("connection id and table are required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method: http.MethodPost,
		Path:   "/profiling/run",
		Body: map[string]string{
			"connection_id": connectionID,
			"table":         table,
		},
		Invalidate: []string{"profiling." + connectionID + "."},
	}, &job)
	return job, err
}

func (s *serviceProfiling) GetProfile(ctx context.Context, connectionID, table string) (domainProfiling.TableProfile, error) {
	var profile domainProfiling.TableProfile
	if connectionID == "" || table == "" {
		return profile, pkgError.ValidationError("connection id and table are required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/profiling/" + connectionID + "/tables/" + table,
		CacheKey: "profiling." + connectionID + ".table." + table,
		TTL:      ttlProfiles,
	}, &profile)
	return profile, err
}

func (s *serviceProfiling) LatestProfiles(ctx context.Context, connectionID string) ([]domainProfiling.TableProfile, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/profiling/" + connectionID + "/latest",
		CacheKey: "profiling." + connectionID + ".latest",
		TTL:      ttlProfiles,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainProfiling.TableProfile](payload, "profiles")
}

// JobStatus is polled by the websocket hub and the CLI; the short TTL keeps
// polling loops from hammering the backend without going stale.
func (s *serviceProfiling) JobStatus(ctx context.Context, jobID string) (domainProfiling.Job, error) {
	var job domainProfiling.Job
	if jobID == "" {
		return job, pkgError.ValidationError("job id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:      "/profiling/jobs/" + jobID,
		RequestID: "profiling.job." + jobID,
		CacheKey:  "profiling.job." + jobID,
		TTL:       ttlJobStatus,
	}, &job)
	return job, err
}
