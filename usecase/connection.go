package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	domainConnection "github.com/qualens/qualens/domains/connection"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/validations"
)

type serviceConnection struct {
	api *api.Client
}

func NewConnectionService(apiClient *api.Client) domainConnection.IConnectionUsecase {
	return &serviceConnection{api: apiClient}
}

func (s *serviceConnection) List(ctx context.Context) ([]domainConnection.Connection, error) {
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/connections",
		CacheKey: "connections.list",
		TTL:      ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainConnection.Connection](payload, "connections")
}

func (s *serviceConnection) Get(ctx context.Context, id string) (domainConnection.Connection, error) {
	var conn domainConnection.Connection
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/connections/" + id,
		CacheKey: "connections.get." + id,
		TTL:      ttlListing,
	}, &conn)
	return conn, err
}

func (s *serviceConnection) Create(ctx context.Context, request domainConnection.CreateRequest) (domainConnection.Connection, error) {
	var conn domainConnection.Connection
	if err := validations.ValidateCreateConnection(request); err != nil {
		return conn, err
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/connections",
		Body:       request,
		Invalidate: []string{"connections."},
	}, &conn)
	return conn, err
}

func (s *serviceConnection) Update(ctx context.Context, id string, request domainConnection.UpdateRequest) (domainConnection.Connection, error) {
	var conn domainConnection.Connection
	if err := validations.ValidateUpdateConnection(id, request); err != nil {
		return conn, err
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPut,
		Path:       "/connections/" + id,
		Body:       request,
		Invalidate: []string{"connections.", "schema." + id + ".", "profiling." + id + "."},
	}, &conn)
	return conn, err
}

func (s *serviceConnection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgError.ValidationError("connection id is required")
	}
	_, err := s.api.Do(ctx, api.RequestOptions{
		Method: http.MethodDelete,
		Path:   "/connections/" + id,
		Invalidate: []string{
			"connections.",
			"schema." + id + ".",
			"profiling." + id + ".",
			"validations." + id + ".",
			"anomaly." + id + ".",
			"analytics." + id + ".",
			"automation." + id + ".",
		},
	})
	return err
}

func (s *serviceConnection) Test(ctx context.Context, id string) (domainConnection.TestResult, error) {
	var result domainConnection.TestResult
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:  http.MethodPost,
		Path:    "/connections/" + id + "/test",
		Timeout: 20 * time.Second,
	}, &result)
	if err == nil {
		result.Latency = time.Duration(result.LatencyMs) * time.Millisecond
	}
	return result, err
}

// ProbeDSN opens the target database locally before Create, catching typos
// in host/credentials without a server round trip. Requires network reach
// to the database from the operator's machine; callers may skip it.
func (s *serviceConnection) ProbeDSN(ctx context.Context, request domainConnection.CreateRequest) error {
	if err := validations.ValidateCreateConnection(request); err != nil {
		return err
	}

	driver, dsn := buildDSN(request)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return pkgError.ValidationError(fmt.Sprintf("invalid %s settings: %v", request.Type, err))
	}
	defer db.Close()

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(probeCtx); err != nil {
		logrus.Debugf("[CONNECTION] DSN probe failed: %v", err)
		return pkgError.ValidationError(fmt.Sprintf("could not reach %s database: %v", request.Type, err))
	}
	return nil
}

func buildDSN(request domainConnection.CreateRequest) (driver, dsn string) {
	if request.Type == "sqlite" {
		return "sqlite3", request.Database
	}
	sslMode := request.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	return "postgres", fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		request.Host, request.Port, request.Username, request.Password, request.Database, sslMode,
	)
}
