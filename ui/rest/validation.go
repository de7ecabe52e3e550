package rest

import (
	"github.com/gofiber/fiber/v2"

	domainValidation "github.com/qualens/qualens/domains/validation"
	"github.com/qualens/qualens/pkg/utils"
)

type Validation struct {
	Service domainValidation.IValidationUsecase
}

func InitRestValidation(app fiber.Router, service domainValidation.IValidationUsecase) Validation {
	rest := Validation{Service: service}
	app.Get("/validations/rules", rest.ListRules)
	app.Post("/validations/rules", rest.CreateRule)
	app.Put("/validations/rules/:id", rest.UpdateRule)
	app.Delete("/validations/rules/:id", rest.DeleteRule)
	app.Post("/validations/run", rest.RunRules)
	app.Get("/validations/results", rest.Results)
	app.Get("/validations/summary", rest.Summary)

	return rest
}

func (handler *Validation) ListRules(c *fiber.Ctx) error {
	rules, err := handler.Service.ListRules(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation rules retrieved",
		Results: rules,
	})
}

func (handler *Validation) CreateRule(c *fiber.Ctx) error {
	var request domainValidation.CreateRuleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	rule, err := handler.Service.CreateRule(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation rule created",
		Results: rule,
	})
}

func (handler *Validation) UpdateRule(c *fiber.Ctx) error {
	var request domainValidation.UpdateRuleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	rule, err := handler.Service.UpdateRule(c.UserContext(), c.Params("id"), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation rule updated",
		Results: rule,
	})
}

func (handler *Validation) DeleteRule(c *fiber.Ctx) error {
	err := handler.Service.DeleteRule(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation rule deleted",
	})
}

func (handler *Validation) RunRules(c *fiber.Ctx) error {
	var request struct {
		ConnectionID string `json:"connection_id"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	run, err := handler.Service.RunRules(c.UserContext(), request.ConnectionID)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation run started",
		Results: run,
	})
}

func (handler *Validation) Results(c *fiber.Ctx) error {
	results, err := handler.Service.Results(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation results retrieved",
		Results: results,
	})
}

func (handler *Validation) Summary(c *fiber.Ctx) error {
	summary, err := handler.Service.Summary(c.UserContext(), c.Query("connection_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Validation summary retrieved",
		Results: summary,
	})
}
