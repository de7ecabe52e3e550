package usecase

import (
	"context"
	"net/http"
	"net/url"

	domainAutomation "github.com/qualens/qualens/domains/automation"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/validations"
)

type serviceAutomation struct {
	api *api.Client
}

func NewAutomationService(apiClient *api.Client) domainAutomation.IAutomationUsecase {
	return &serviceAutomation{api: apiClient}
}

func (s *serviceAutomation) ListSchedules(ctx context.Context, connectionID string) ([]domainAutomation.Schedule, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	key := "automation." + connectionID + ".schedules"
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/automation/schedules",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAutomation.Schedule](payload, "schedules")
}

func (s *serviceAutomation) CreateSchedule(ctx context.Context, request domainAutomation.CreateScheduleRequest) (domainAutomation.Schedule, error) {
	var schedule domainAutomation.Schedule
	if err := validations.ValidateCreateSchedule(request); err != nil {
		return schedule, err
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/automation/schedules",
		Body:       request,
		Invalidate: []string{"automation."},
	}, &schedule)
	return schedule, err
}

func (s *serviceAutomation) UpdateSchedule(ctx context.Context, id string, request domainAutomation.UpdateScheduleRequest) (domainAutomation.Schedule, error) {
	var schedule domainAutomation.Schedule
	if err := validations.ValidateUpdateSchedule(id, request); err != nil {
		return schedule, err
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPut,
		Path:       "/automation/schedules/" + id,
		Body:       request,
		Invalidate: []string{"automation."},
	}, &schedule)
	return schedule, err
}

func (s *serviceAutomation) ToggleSchedule(ctx context.Context, id string, enabled bool) (domainAutomation.Schedule, error) {
	var schedule domainAutomation.Schedule
	if id == "" {
		return schedule, pkgError.ValidationError("schedule id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPut,
		Path:       "/automation/schedules/" + id + "/toggle",
		Body:       map[string]bool{"enabled": enabled},
		Invalidate: []string{"automation."},
	}, &schedule)
	return schedule, err
}

func (s *serviceAutomation) TriggerRun(ctx context.Context, id string) (domainAutomation.Run, error) {
	var run domainAutomation.Run
	if id == "" {
		return run, pkgError.ValidationError("schedule id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/automation/schedules/" + id + "/run",
		Invalidate: []string{"automation."},
	}, &run)
	return run, err
}

func (s *serviceAutomation) RunHistory(ctx context.Context, id string) ([]domainAutomation.Run, error) {
	if id == "" {
		return nil, pkgError.ValidationError("schedule id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/automation/schedules/" + id + "/runs",
		CacheKey: "automation.runs." + id,
		TTL:      ttlResults,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAutomation.Run](payload, "runs")
}

func (s *serviceAutomation) GlobalStatus(ctx context.Context) (domainAutomation.GlobalStatus, error) {
	var status domainAutomation.GlobalStatus
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/automation/status",
		CacheKey: "automation.status",
		TTL:      ttlJobStatus,
	}, &status)
	return status, err
}
