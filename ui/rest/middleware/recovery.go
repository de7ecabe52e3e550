package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/qualens/qualens/pkg/utils"
)

// Recovery converts panics raised by handlers (via utils.PanicIfNeeded)
// into the JSON response envelope. Typed request-layer errors keep their
// status and code; anything else is a 500.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				res := utils.ResponseData{
					Status:  500,
					Code:    "INTERNAL_SERVER_ERROR",
					Message: fmt.Sprintf("%v", err),
				}

				if typed, ok := err.(pkgError.GenericError); ok {
					res.Status = typed.StatusCode()
					res.Code = typed.ErrCode()
					res.Message = typed.Error()
				} else {
					logrus.Errorf("Panic recovered in gateway handler: %v", err)
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}
