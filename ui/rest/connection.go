package rest

import (
	"github.com/gofiber/fiber/v2"

	domainConnection "github.com/qualens/qualens/domains/connection"
	"github.com/qualens/qualens/pkg/utils"
)

type Connection struct {
	Service domainConnection.IConnectionUsecase
}

func InitRestConnection(app fiber.Router, service domainConnection.IConnectionUsecase) Connection {
	rest := Connection{Service: service}
	app.Get("/connections", rest.List)
	app.Post("/connections", rest.Create)
	app.Get("/connections/:id", rest.Get)
	app.Put("/connections/:id", rest.Update)
	app.Delete("/connections/:id", rest.Delete)
	app.Post("/connections/:id/test", rest.Test)

	return rest
}

func (handler *Connection) List(c *fiber.Ctx) error {
	connections, err := handler.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connections retrieved",
		Results: connections,
	})
}

func (handler *Connection) Get(c *fiber.Ctx) error {
	conn, err := handler.Service.Get(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection retrieved",
		Results: conn,
	})
}

func (handler *Connection) Create(c *fiber.Ctx) error {
	var request domainConnection.CreateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	conn, err := handler.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection created",
		Results: conn,
	})
}

func (handler *Connection) Update(c *fiber.Ctx) error {
	var request domainConnection.UpdateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	conn, err := handler.Service.Update(c.UserContext(), c.Params("id"), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection updated",
		Results: conn,
	})
}

func (handler *Connection) Delete(c *fiber.Ctx) error {
	err := handler.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection deleted",
	})
}

func (handler *Connection) Test(c *fiber.Ctx) error {
	result, err := handler.Service.Test(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection tested",
		Results: result,
	})
}
