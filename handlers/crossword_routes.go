// handlers/crossword_routes.go
package handlers

import (
	"campus-tour-system/middleware"
	"campus-tour-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCrosswordRoutes(app *fiber.App, crosswordService *services.CrosswordService) {
	app.Get("/api/crossword", func(c *fiber.Ctx) error {
		puzzles, err := crosswordService.ListPuzzles()
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, puzzles)
	})

	secured := app.Group("/api/crossword", middleware.UserContextMiddleware())

	secured.Get("/:puzzleId/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		progress, err := crosswordService.GetProgress(userID, c.Params("puzzleId"))
		if err != nil {
			return respondError(c, err)
		}
		// Never-started is not an error here; the client uses null to
		// decide whether to offer the start action.
		return respondData(c, fiber.StatusOK, progress)
	})

	secured.Post("/:puzzleId/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		progress, err := crosswordService.Start(userID, c.Params("puzzleId"))
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, progress)
	})

	secured.Put("/:puzzleId/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var patch services.ProgressPatch
		if err := c.BodyParser(&patch); err != nil {
			return respondFail(c, fiber.StatusBadRequest, "invalid request body")
		}

		progress, err := crosswordService.UpdateProgress(userID, c.Params("puzzleId"), patch)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, progress)
	})

	admin := app.Group("/api/crossword", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/", func(c *fiber.Ctx) error {
		var in services.CreatePuzzleInput
		if err := c.BodyParser(&in); err != nil {
			return respondFail(c, fiber.StatusBadRequest, "invalid request body")
		}
		puzzle, err := crosswordService.CreatePuzzle(in)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, puzzle)
	})
}
