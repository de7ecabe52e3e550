package usecase

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainAdmin "github.com/qualens/qualens/domains/admin"
	"github.com/qualens/qualens/infrastructure/api"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type serviceAdmin struct {
	api *api.Client
}

func NewAdminService(apiClient *api.Client) domainAdmin.IAdminUsecase {
	return &serviceAdmin{api: apiClient}
}

func (s *serviceAdmin) ListUsers(ctx context.Context) ([]domainAdmin.User, error) {
	payload, err := s.api.Do(ctx, api.RequestOptions{
		Path:     "/admin/users",
		CacheKey: "admin.users",
		TTL:      ttlListing,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domainAdmin.User](payload, "users")
}

func (s *serviceAdmin) InviteUser(ctx context.Context, request domainAdmin.InviteRequest) (domainAdmin.User, error) {
	var user domainAdmin.User
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Email, validation.Required, is.Email),
		validation.Field(&request.Role, validation.Required, validation.In("admin", "editor", "viewer")),
	)
	if err != nil {
		return user, pkgError.ValidationError(err.Error())
	}
	err = s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPost,
		Path:       "/admin/users",
		Body:       request,
		Invalidate: []string{"admin."},
	}, &user)
	return user, err
}

func (s *serviceAdmin) UpdateUserRole(ctx context.Context, id, role string) (domainAdmin.User, error) {
	var user domainAdmin.User
	if id == "" {
		return user, pkgError.ValidationError("user id is required")
	}
	switch role {
	case "admin", "editor", "viewer":
	default:
		return user, pkgError.ValidationError("role must be admin, editor or viewer")
	}
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Method:     http.MethodPut,
		Path:       "/admin/users/" + id + "/role",
		Body:       map[string]string{"role": role},
		Invalidate: []string{"admin."},
	}, &user)
	return user, err
}

func (s *serviceAdmin) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return pkgError.ValidationError("user id is required")
	}
	_, err := s.api.Do(ctx, api.RequestOptions{
		Method:     http.MethodDelete,
		Path:       "/admin/users/" + id,
		Invalidate: []string{"admin."},
	})
	return err
}

func (s *serviceAdmin) OrgStats(ctx context.Context) (domainAdmin.OrgStats, error) {
	var stats domainAdmin.OrgStats
	err := s.api.GetJSON(ctx, api.RequestOptions{
		Path:     "/admin/stats",
		CacheKey: "admin.stats",
		TTL:      ttlStats,
	}, &stats)
	return stats, err
}
