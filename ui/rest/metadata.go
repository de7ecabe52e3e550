package rest

import (
	"github.com/gofiber/fiber/v2"

	domainMetadata "github.com/qualens/qualens/domains/metadata"
	"github.com/qualens/qualens/pkg/utils"
)

type Metadata struct {
	Service domainMetadata.IMetadataUsecase
}

func InitRestMetadata(app fiber.Router, service domainMetadata.IMetadataUsecase) Metadata {
	rest := Metadata{Service: service}
	app.Post("/metadata/refresh", rest.Refresh)
	app.Get("/metadata/worker", rest.WorkerStatus)
	app.Get("/metadata/coverage", rest.Coverage)

	return rest
}

func (handler *Metadata) Refresh(c *fiber.Ctx) error {
	var request struct {
		ConnectionID string `json:"connection_id"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = handler.Service.Refresh(c.UserContext(), request.ConnectionID)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Metadata refresh queued",
	})
}

func (handler *Metadata) WorkerStatus(c *fiber.Ctx) error {
	status, err := handler.Service.WorkerStatus(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Worker status retrieved",
		Results: status,
	})
}

func (handler *Metadata) Coverage(c *fiber.Ctx) error {
	coverage, err := handler.Service.Coverage(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Coverage retrieved",
		Results: coverage,
	})
}
