// handlers/activity_routes.go
package handlers

import (
	"campus-tour-system/middleware"
	"campus-tour-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(app *fiber.App, activityService *services.ActivityService) {
	app.Get("/api/activities", func(c *fiber.Ctx) error {
		activities, err := activityService.ListActivities()
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, activities)
	})

	secured := app.Group("/api/activities", middleware.UserContextMiddleware())

	secured.Get("/completion", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		status, err := activityService.CheckCompletion(userID)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, status)
	})

	secured.Post("/:activityId/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		completion, err := activityService.CompleteActivity(userID, c.Params("activityId"))
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, completion)
	})

	admin := app.Group("/api/activities", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/", func(c *fiber.Ctx) error {
		var in services.CreateActivityInput
		if err := c.BodyParser(&in); err != nil {
			return respondFail(c, fiber.StatusBadRequest, "invalid request body")
		}
		activity, err := activityService.CreateActivity(in)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, activity)
	})
}
