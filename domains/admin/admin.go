package admin

import (
	"context"
	"time"
)

type IAdminUsecase interface {
	ListUsers(ctx context.Context) ([]User, error)
	InviteUser(ctx context.Context, request InviteRequest) (User, error)
	UpdateUserRole(ctx context.Context, id, role string) (User, error)
	DeleteUser(ctx context.Context, id string) error
	OrgStats(ctx context.Context) (OrgStats, error)
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"` // "admin", "editor", "viewer"
	LastSignInAt time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type OrgStats struct {
	Users         int `json:"users"`
	Connections   int `json:"connections"`
	ActiveRules   int `json:"active_rules"`
	OpenAnomalies int `json:"open_anomalies"`
}
