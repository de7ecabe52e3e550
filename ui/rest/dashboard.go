package rest

import (
	"github.com/gofiber/fiber/v2"

	domainDashboard "github.com/qualens/qualens/domains/dashboard"
	"github.com/qualens/qualens/pkg/utils"
)

type Dashboard struct {
	Service domainDashboard.IDashboardUsecase
}

func InitRestDashboard(app fiber.Router, service domainDashboard.IDashboardUsecase) Dashboard {
	rest := Dashboard{Service: service}
	app.Get("/dashboard", rest.Overview)

	return rest
}

func (handler *Dashboard) Overview(c *fiber.Ctx) error {
	overview, err := handler.Service.Overview(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Dashboard overview retrieved",
		Results: overview,
	})
}
