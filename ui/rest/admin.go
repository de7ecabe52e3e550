package rest

import (
	"github.com/gofiber/fiber/v2"

	domainAdmin "github.com/qualens/qualens/domains/admin"
	"github.com/qualens/qualens/pkg/utils"
)

type Admin struct {
	Service domainAdmin.IAdminUsecase
}

func InitRestAdmin(app fiber.Router, service domainAdmin.IAdminUsecase) Admin {
	rest := Admin{Service: service}
	app.Get("/admin/users", rest.ListUsers)
	app.Post("/admin/users", rest.InviteUser)
	app.Put("/admin/users/:id/role", rest.UpdateUserRole)
	app.Delete("/admin/users/:id", rest.DeleteUser)
	app.Get("/admin/stats", rest.OrgStats)

	return rest
}

func (handler *Admin) ListUsers(c *fiber.Ctx) error {
	users, err := handler.Service.ListUsers(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Users retrieved",
		Results: users,
	})
}

func (handler *Admin) InviteUser(c *fiber.Ctx) error {
	var request domainAdmin.InviteRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	user, err := handler.Service.InviteUser(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User invited",
		Results: user,
	})
}

func (handler *Admin) UpdateUserRole(c *fiber.Ctx) error {
	var request struct {
		Role string `json:"role"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	user, err := handler.Service.UpdateUserRole(c.UserContext(), c.Params("id"), request.Role)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User role updated",
		Results: user,
	})
}

func (handler *Admin) DeleteUser(c *fiber.Ctx) error {
	err := handler.Service.DeleteUser(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User deleted",
	})
}

func (handler *Admin) OrgStats(c *fiber.Ctx) error {
	stats, err := handler.Service.OrgStats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Organization stats retrieved",
		Results: stats,
	})
}
