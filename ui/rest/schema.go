package rest

import (
	"github.com/gofiber/fiber/v2"

	domainSchema "github.com/qualens/qualens/domains/schema"
	"github.com/qualens/qualens/pkg/utils"
)

type Schema struct {
	Service domainSchema.ISchemaUsecase
}

func InitRestSchema(app fiber.Router, service domainSchema.ISchemaUsecase) Schema {
	rest := Schema{Service: service}
	app.Get("/connections/:id/tables", rest.ListTables)
	app.Get("/connections/:id/tables/:table/schema", rest.GetTableSchema)
	app.Get("/connections/:id/schema-changes", rest.ListChanges)
	app.Post("/connections/:id/schema-changes/detect", rest.DetectChanges)

	return rest
}

func (handler *Schema) ListTables(c *fiber.Ctx) error {
	tables, err := handler.Service.ListTables(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Tables retrieved",
		Results: tables,
	})
}

func (handler *Schema) GetTableSchema(c *fiber.Ctx) error {
	ts, err := handler.Service.GetTableSchema(c.UserContext(), c.Params("id"), c.Params("table"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Table schema retrieved",
		Results: ts,
	})
}

func (handler *Schema) ListChanges(c *fiber.Ctx) error {
	changes, err := handler.Service.ListChanges(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schema changes retrieved",
		Results: changes,
	})
}

func (handler *Schema) DetectChanges(c *fiber.Ctx) error {
	changes, err := handler.Service.DetectChanges(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schema change detection completed",
		Results: changes,
	})
}
