package usecase

import (
	"context"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

// Explainer produces a narrative for one anomaly; the insights integration
// implements it with Gemini. Nil disables Explain.
type Explainer interface {
	Explain(ctx context.Context, a domainAnomaly.Anomaly) (text, model string, err error)
}

type serviceAnomaly struct {
	api       *api.Client
	explainer Explainer
}

func NewAnomalyService(apiClient *api.Client, explainer Explainer) domainAnomaly.IAnomalyUsecase {
	return &serviceAnomaly{api: apiClient, explainer: explainer}
}

func (s *serviceAnomaly) List(ctx context.Context, connectionID string) ([]domainAnomaly.Anomaly, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	key := "anomaly." + connectionID + ".list"
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/anomalies",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlResults,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAnomaly.Anomaly](payload, "anomalies")
}

func (s *serviceAnomaly) Configs(ctx context.Context, connectionID string) ([]domainAnomaly.Config, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	key := "anomaly." + connectionID + ".configs"
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/anomalies/configs",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAnomaly.Config](payload, "configs")
}

func (s *serviceAnomaly) SaveConfig(ctx context.Context, request domainAnomaly.SaveConfigRequest) (domainAnomaly.Config, error) {
	var config domainAnomaly.Config
	err := validation.ValidateStruct(&request,
		validation.Field(&request.ConnectionID, validation.Required),
		validation.Field(&request.Metric, validation.Required,
			validation.In("row_count", "null_rate", "distinct_count", "freshness")),
		validation.Field(&request.Sensitivity, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return config, pkgError.ValidationError(err.Error())
	}
	err = s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/anomalies/configs",
		Body:       request,
		Invalidate: []string{"anomaly." + request.ConnectionID + "."},
	}, &config)
	return config, err
}

func (s *serviceAnomaly) Acknowledge(ctx context.Context, id string) error {
	if id == "" {
		return pkgError.ValidationError("anomaly id is required")
	}
	_, err := s.api.Do(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/anomalies/" + id + "/acknowledge",
		Invalidate: []string{"anomaly."},
	})
	return err
}

// Explain fetches the anomaly and hands it to the model. The detail read
// is not cached: explanations are rare, the detail is cheap.
func (s *serviceAnomaly) Explain(ctx context.Context, id string) (domainAnomaly.Explanation, error) {
	var explanation domainAnomaly.Explanation
	if id == "" {
		return explanation, pkgError.ValidationError("anomaly id is required")
	}
	if s.explainer == nil {
		return explanation, pkgError.ValidationError("anomaly explanations are not configured; set a Gemini API key")
	}

	var a domainAnomaly.Anomaly
	if err := s.api.GetJSON(ctx, api.RequestOptions{Path: "/anomalies/" + id}, &a); err != nil {
		return explanation, err
	}

	text, model, err := s.explainer.Explain(ctx, a)
	if err != nil {
		return explanation, err
	}
	return domainAnomaly.Explanation{AnomalyID: id, Text: text, Model: model}, nil
}
