// handlers/respond.go
package handlers

import (
	"log"

	"campus-tour-system/models"

	"github.com/gofiber/fiber/v2"
)

// statusByKind is the single place a domain failure becomes an HTTP status.
var statusByKind = map[models.ErrorKind]int{
	models.ErrKindValidation:      fiber.StatusBadRequest,
	models.ErrKindNotFound:        fiber.StatusNotFound,
	models.ErrKindConflict:        fiber.StatusConflict,
	models.ErrKindAlreadyIssued:   fiber.StatusForbidden,
	models.ErrKindAlreadyRedeemed: fiber.StatusConflict,
	models.ErrKindExpired:         fiber.StatusConflict,
	models.ErrKindInternal:        fiber.StatusInternalServerError,
}

func respondData(c *fiber.Ctx, code int, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func respondFail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "fail",
		"message": message,
	})
}

// respondError maps a service error onto the envelope. Unexpected errors
// are logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	kind := models.KindOf(err)
	code := statusByKind[kind]
	if kind == models.ErrKindInternal {
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"message": "internal server error",
		})
	}
	return respondFail(c, code, err.Error())
}
