package rest

import (
	"github.com/gofiber/fiber/v2"

	domainAutomation "github.com/qualens/qualens/domains/automation"
	"github.com/qualens/qualens/pkg/utils"
)

type Automation struct {
	Service domainAutomation.IAutomationUsecase
}

func InitRestAutomation(app fiber.Router, service domainAutomation.IAutomationUsecase) Automation {
	rest := Automation{Service: service}
	app.Get("/automation/schedules", rest.ListSchedules)
	app.Post("/automation/schedules", rest.CreateSchedule)
	app.Put("/automation/schedules/:id", rest.UpdateSchedule)
	app.Put("/automation/schedules/:id/toggle", rest.ToggleSchedule)
	app.Post("/automation/schedules/:id/run", rest.TriggerRun)
	app.Get("/automation/schedules/:id/runs", rest.RunHistory)
	app.Get("/automation/status", rest.GlobalStatus)

	return rest
}

func (handler *Automation) ListSchedules(c *fiber.Ctx) error {
	schedules, err := handler.Service.ListSchedules(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schedules retrieved",
		Results: schedules,
	})
}

func (handler *Automation) CreateSchedule(c *fiber.Ctx) error {
	var request domainAutomation.CreateScheduleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	schedule, err := handler.Service.CreateSchedule(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schedule created",
		Results: schedule,
	})
}

func (handler *Automation) UpdateSchedule(c *fiber.Ctx) error {
	var request domainAutomation.UpdateScheduleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	schedule, err := handler.Service.UpdateSchedule(c.UserContext(), c.Params("id"), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schedule updated",
		Results: schedule,
	})
}

func (handler *Automation) ToggleSchedule(c *fiber.Ctx) error {
	var request struct {
		Enabled bool `json:"enabled"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	schedule, err := handler.Service.ToggleSchedule(c.UserContext(), c.Params("id"), request.Enabled)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schedule toggled",
		Results: schedule,
	})
}

func (handler *Automation) TriggerRun(c *fiber.Ctx) error {
	run, err := handler.Service.TriggerRun(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Run triggered",
		Results: run,
	})
}

func (handler *Automation) RunHistory(c *fiber.Ctx) error {
	runs, err := handler.Service.RunHistory(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Run history retrieved",
		Results: runs,
	})
}

func (handler *Automation) GlobalStatus(c *fiber.Ctx) error {
	status, err := handler.Service.GlobalStatus(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Automation status retrieved",
		Results: status,
	})
}
