package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	domainAnalytics "github.com/qualens/qualens/domains/analytics"
	"github.com/qualens/qualens/pkg/utils"
)

type Analytics struct {
	Service domainAnalytics.IAnalyticsUsecase
}

func InitRestAnalytics(app fiber.Router, service domainAnalytics.IAnalyticsUsecase) Analytics {
	rest := Analytics{Service: service}
	app.Get("/analytics/quality-score", rest.QualityScore)
	app.Get("/analytics/trends", rest.Trends)
	app.Get("/analytics/dimensions", rest.Dimensions)

	return rest
}

func (handler *Analytics) QualityScore(c *fiber.Ctx) error {
	score, err := handler.Service.QualityScore(c.UserContext(), c.Query("connection_id"), c.Query("table"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Quality score retrieved",
		Results: score,
	})
}

func (handler *Analytics) Trends(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	trends, err := handler.Service.Trends(c.UserContext(), c.Query("connection_id"), days)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Trends retrieved",
		Results: trends,
	})
}

func (handler *Analytics) Dimensions(c *fiber.Ctx) error {
	dimensions, err := handler.Service.Dimensions(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Dimensions retrieved",
		Results: dimensions,
	})
}
