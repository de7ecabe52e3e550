package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qualens/qualens/infrastructure/auth"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/pkg/utils"
)

type Session struct {
	Service *auth.Service
}

func InitRestSession(app fiber.Router, service *auth.Service) Session {
	rest := Session{Service: service}
	app.Post("/session/signin", rest.SignIn)
	app.Post("/session/signout", rest.SignOut)
	app.Get("/session", rest.Current)

	return rest
}

func (handler *Session) SignIn(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	session, err := handler.Service.SignIn(c.UserContext(), request.Email, request.Password)
	utils.PanicIfNeeded(err)

	// The access token stays server-side; the dashboard only needs the
	// identity and expiry.
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Signed in",
		Results: fiber.Map{
			"user":       session.User,
			"expires_at": session.ExpiresAt,
		},
	})
}

func (handler *Session) SignOut(c *fiber.Ctx) error {
	err := handler.Service.SignOut(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Signed out",
	})
}

func (handler *Session) Current(c *fiber.Ctx) error {
	session := handler.Service.Current()
	if session == nil {
		utils.PanicIfNeeded(pkgError.UnauthorizedError("not signed in"))
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session retrieved",
		Results: fiber.Map{
			"user":       session.User,
			"expires_at": session.ExpiresAt,
		},
	})
}
