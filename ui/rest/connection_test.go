package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainConnection "github.com/qualens/qualens/domains/connection"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/pkg/utils"
	"github.com/qualens/qualens/ui/rest/middleware"
)

type fakeConnectionUsecase struct {
	domainConnection.IConnectionUsecase
	list    []domainConnection.Connection
	listErr error
}

func (f *fakeConnectionUsecase) List(ctx context.Context) ([]domainConnection.Connection, error) {
	return f.list, f.listErr
}

func newTestApp(service domainConnection.IConnectionUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestConnection(app, service)
	return app
}

func TestConnectionListHandler(t *testing.T) {
	app := newTestApp(&fakeConnectionUsecase{
		list: []domainConnection.Connection{{ID: "c1", Name: "prod"}},
	})

	res, err := app.Test(httptest.NewRequest("GET", "/connections", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var payload utils.ResponseData
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "SUCCESS", payload.Code)
}

func TestConnectionListHandlerMapsTypedErrors(t *testing.T) {
	app := newTestApp(&fakeConnectionUsecase{
		listErr: pkgError.UnauthorizedError("session expired"),
	})

	res, err := app.Test(httptest.NewRequest("GET", "/connections", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var payload utils.ResponseData
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "UNAUTHORIZED_ERROR", payload.Code)
	assert.Equal(t, "session expired", payload.Message)
}
