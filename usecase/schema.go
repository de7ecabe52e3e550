package usecase

import (
	"context"
	"net/http"

	domainSchema "github.com/qualens/qualens/domains/schema"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceSchema struct {
	api *api.Client
}

func NewSchemaService(apiClient *api.Client) domainSchema.ISchemaUsecase {
	return &serviceSchema{api: apiClient}
}

func (s *serviceSchema) ListTables(ctx context.Context, connectionID string) ([]domainSchema.Table, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/connections/" + connectionID + "/tables",
		CacheKey: "schema." + connectionID + ".tables",
		TTL:      ttlSchema,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainSchema.Table](payload, "tables")
}

func (s *serviceSchema) GetTableSchema(ctx context.Context, connectionID, table string) (domainSchema.TableSchema, error) {
	var ts domainSchema.TableSchema
	if connectionID == "" || table == "" {
		return ts, pkgError.ValidationError("connection id and table are required")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/connections/" + connectionID + "/tables/" + table + "/schema",
		CacheKey: "schema." + connectionID + ".table." + table,
		TTL:      ttlSchema,
	}, &ts)
	return ts, err
}

func (s *serviceSchema) ListChanges(ctx context.Context, connectionID string) ([]domainSchema.Change, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/connections/" + connectionID + "/schema-changes",
		CacheKey: "schema." + connectionID + ".changes",
		TTL:      ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainSchema.Change](payload, "changes")
}

// DetectChanges asks the backend to diff the live schema against its last
// snapshot and returns whatever drift it found.
func (s *serviceSchema) DetectChanges(ctx context.Context, connectionID string) ([]domainSchema.Change, error) {
	if connectionID == "" {
		return nil, pkgError.ValidationError("connection id is required")
	}
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/connections/" + connectionID + "/schema-changes/detect",
		Invalidate: []string{"schema." + connectionID + "."},
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainSchema.Change](payload, "changes")
}
