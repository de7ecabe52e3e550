package connection

import (
	"context"
	"time"
)

type IConnectionUsecase interface {
	List(ctx context.Context) ([]Connection, error)
	Get(ctx context.Context, id string) (Connection, error)
	Create(ctx context.Context, request CreateRequest) (Connection, error)
	Update(ctx context.Context, id string, request UpdateRequest) (Connection, error)
	Delete(ctx context.Context, id string) error
	Test(ctx context.Context, id string) (TestResult, error)
	ProbeDSN(ctx context.Context, request CreateRequest) error
}

// Connection is a monitored database the backend profiles and validates.
type Connection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // "postgres" or "sqlite"
	Host      string    `json:"host,omitempty"`
	Port      int       `json:"port,omitempty"`
	Database  string    `json:"database"`
	Username  string    `json:"username,omitempty"`
	Status    string    `json:"status"` // "connected", "error", "pending"
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

type UpdateRequest struct {
	Name     string `json:"name,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// TestResult is the backend's server-side connectivity check.
type TestResult struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	LatencyMs int           `json:"latency_ms,omitempty"`
	Latency   time.Duration `json:"-"`
}
