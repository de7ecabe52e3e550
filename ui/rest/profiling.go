package rest

import (
	"github.com/gofiber/fiber/v2"

	domainProfiling "github.com/qualens/qualens/domains/profiling"
	"github.com/qualens/qualens/pkg/utils"
)

type Profiling struct {
	Service domainProfiling.IProfilingUsecase
}

func InitRestProfiling(app fiber.Router, service domainProfiling.IProfilingUsecase) Profiling {
	rest := Profiling{Service: service}
	app.Post("/profiling/run", rest.ProfileTable)
	app.Get("/profiling/jobs/:jobId", rest.JobStatus)
	app.Get("/profiling/:id/latest", rest.LatestProfiles)
	app.Get("/profiling/:id/tables/:table", rest.GetProfile)

	return rest
}

func (handler *Profiling) ProfileTable(c *fiber.Ctx) error {
	var request struct {
		ConnectionID string `json:"connection_id"`
		Table        string `json:"table"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	job, err := handler.Service.ProfileTable(c.UserContext(), request.ConnectionID, request.Table)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Profiling job queued",
		Results: job,
	})
}

func (handler *Profiling) GetProfile(c *fiber.Ctx) error {
	profile, err := handler.Service.GetProfile(c.UserContext(), c.Params("id"), c.Params("table"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Table profile retrieved",
		Results: profile,
	})
}

func (handler *Profiling) LatestProfiles(c *fiber.Ctx) error {
	profiles, err := handler.Service.LatestProfiles(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Latest profiles retrieved",
		Results: profiles,
	})
}

func (handler *Profiling) JobStatus(c *fiber.Ctx) error {
	job, err := handler.Service.JobStatus(c.UserContext(), c.Params("jobId"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Job status retrieved",
		Results: job,
	})
}
