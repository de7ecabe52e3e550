package usecase

import (
	"context"
	"net/http"
	"net/url"

	domainValidation "github.com/qualens/qualens/domains/validation"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/validations"
)

type serviceValidation struct {
	api *api.Client
}

func NewValidationService(apiClient *api.Client) domainValidation.IValidationUsecase {
	return &serviceValidation{api: apiClient}
}

func (s *serviceValidation) ListRules(ctx context.Context, connectionID string) ([]domainValidation.Rule, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/validations/rules",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: "validations.rules." + connectionID,
		CacheKey:  "validations." + connectionID + ".rules",
		TTL:       ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainValidation.Rule](payload, "rules")
}

func (s *serviceValidation) CreateRule(ctx context.Context, request domainValidation.CreateRuleRequest) (domainValidation.Rule, error) {
	var rule domainValidation.Rule
	if err := validations.ValidateCreateRule(request); err != nil {
		return rule, err
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/validations/rules",
		Body:       request,
		Invalidate: []string{"validations." + request.ConnectionID + "."},
	}, &rule)
	return rule, err
}

func (s *serviceValidation) UpdateRule(ctx context.Context, id string, request domainValidation.UpdateRuleRequest) (domainValidation.Rule, error) {
	var rule domainValidation.Rule
	if err := validations.ValidateUpdateRule(id, request); err != nil {
		return rule, err
	}
	// The rule's connection isn't known here; drop every validations cache.
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPut,
		Path:       "/validations/rules/" + id,
		Body:       request,
		Invalidate: []string{"validations."},
	}, &rule)
	return rule, err
}

func (s *serviceValidation) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return pkgError.ValidationError("rule id is required")
	}
	_, err := s.api.Do(ctx, api.RequestOptions{
		Method:     http.MethodDelete,
		Path:       "/validations/rules/" + id,
		Invalidate: []string{"validations."},
	})
	return err
}

func (s *serviceValidation) RunRules(ctx context.Context, connectionID string) (domainValidation.Run, error) {
	var run domainValidation.Run
	if connectionID == "" {
		return run, pkgError.ValidationError("connection id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method: http.MethodPost,
		Path:   "/validations/run",
		Body:   map[string]string{"connection_id": connectionID},
		Invalidate: []string{
			"validations." + connectionID + ".",
			"analytics." + connectionID + ".",
		},
	}, &run)
	return run, err
}

func (s *serviceValidation) Results(ctx context.Context, connectionID string) ([]domainValidation.Result, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/validations/results",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: "validations.results." + connectionID,
		CacheKey:  "validations." + connectionID + ".results",
		TTL:       ttlResults,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainValidation.Result](payload, "results")
}

func (s *serviceValidation) Summary(ctx context.Context, connectionID string) (domainValidation.Summary, error) {
	var summary domainValidation.Summary
	if connectionID == "" {
		return summary, pkgError.ValidationError("connection id is required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:      "/validations/summary",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: "validations.summary." + connectionID,
		CacheKey:  "validations." + connectionID + ".summary",
		TTL:       ttlStats,
	}, &summary)
	return summary, err
}
