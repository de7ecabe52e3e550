package rest

import (
	"github.com/gofiber/fiber/v2"

	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	"github.com/qualens/qualens/pkg/utils"
)

type Anomaly struct {
	Service domainAnomaly.IAnomalyUsecase
}

func InitRestAnomaly(app fiber.Router, service domainAnomaly.IAnomalyUsecase) Anomaly {
	rest := Anomaly{Service: service}
	app.Get("/anomalies", rest.List)
	app.Get("/anomalies/configs", rest.Configs)
	app.Post("/anomalies/configs", rest.SaveConfig)
	app.Post("/anomalies/:id/acknowledge", rest.Acknowledge)
	app.Get("/anomalies/:id/explain", rest.Explain)

	return rest
}

func (handler *Anomaly) List(c *fiber.Ctx) error {
	anomalies, err := handler.Service.List(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Anomalies retrieved",
		Results: anomalies,
	})
}

func (handler *Anomaly) Configs(c *fiber.Ctx) error {
	configs, err := handler.Service.Configs(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Anomaly configs retrieved",
		Results: configs,
	})
}

func (handler *Anomaly) SaveConfig(c *fiber.Ctx) error {
	var request domainAnomaly.SaveConfigRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	config, err := handler.Service.SaveConfig(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Anomaly config saved",
		Results: config,
	})
}

func (handler *Anomaly) Acknowledge(c *fiber.Ctx) error {
	err := handler.Service.Acknowledge(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Anomaly acknowledged",
	})
}

func (handler *Anomaly) Explain(c *fiber.Ctx) error {
	explanation, err := handler.Service.Explain(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Anomaly explained",
		Results: explanation,
	})
}
