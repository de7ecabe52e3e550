package usecase

import (
	"context"
	"net/url"
	"strconv"

	domainAnalytics "github.com/qualens/qualens/domains/analytics"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceAnalytics struct {
	api *api.Client
}

func NewAnalyticsService(apiClient *api.Client) domainAnalytics.IAnalyticsUsecase {
	return &serviceAnalytics{api: apiClient}
}

func (s *serviceAnalytics) QualityScore(ctx context.Context, connectionID, table string) (domainAnalytics.QualityScore, error) {
	var score domainAnalytics.QualityScore
	if connectionID == "" {
		return score, pkgError.ValidationError("connection id is required")
	}
	query := url.Values{"connection_id": {connectionID}}
	key := "analytics." + connectionID + ".score"
	if table != "" {
		query.Set("table", table)
		key += "." + table
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:      "/analytics/quality-score",
		Query:     query,
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlStats,
	}, &score)
	return score, err
}

func (s *serviceAnalytics) Trends(ctx context.Context, connectionID string, days int) ([]domainAnalytics.TrendPoint, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	if days <= 0 {
		days = 30
	}
	key := "analytics." + connectionID + ".trends." + strconv.Itoa(days)
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path: "/analytics/trends",
		Query: url.Values{
			"connection_id": {connectionID},
			"days":          {strconv.Itoa(days)},
		},
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlStats,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAnalytics.TrendPoint](payload, "trends")
}

func (s *serviceAnalytics) Dimensions(ctx context.Context, connectionID string) ([]domainAnalytics.Dimension, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	key := "analytics." + connectionID + ".dimensions"
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:      "/analytics/dimensions",
		Query:     url.Values{"connection_id": {connectionID}},
		RequestID: key,
		CacheKey:  key,
		TTL:       ttlStats,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAnalytics.Dimension](payload, "dimensions")
}
