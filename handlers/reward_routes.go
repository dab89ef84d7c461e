// handlers/reward_routes.go
package handlers

import (
	"campus-tour-system/middleware"
	"campus-tour-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService, activityService *services.ActivityService, authClient *services.AuthServiceClient) {
	// Redemption is deliberately unauthenticated: the QR token is the
	// credential, the caller is a staff scanner.
	app.Post("/api/rewards/redeem", func(c *fiber.Ctx) error {
		var req struct {
			QRToken string `json:"qrToken"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondFail(c, fiber.StatusBadRequest, "invalid request body")
		}
		if req.QRToken == "" {
			return respondFail(c, fiber.StatusBadRequest, "qrToken is required")
		}

		reward, err := rewardService.Redeem(req.QRToken)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, fiber.Map{"reward": reward})
	})

	// Status works for either side of the exchange: the scanner passes
	// ?qrToken=, the owner is identified by the gateway header.
	app.Get("/api/rewards/status", func(c *fiber.Ctx) error {
		if token := c.Query("qrToken"); token != "" {
			info, err := rewardService.StatusByToken(token)
			if err != nil {
				return respondError(c, err)
			}
			return respondData(c, fiber.StatusOK, info)
		}

		userID := c.Get("X-User-ID")
		if userID == "" {
			return respondFail(c, fiber.StatusBadRequest, "qrToken query param or user context required")
		}
		info, err := rewardService.StatusForUser(userID)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, info)
	})

	if authClient != nil {
		app.Get("/api/rewards/status/stream", middleware.SSEAuthMiddleware(authClient), rewardService.StreamRewardStatusSSE)
	}

	secured := app.Group("/api/rewards", middleware.UserContextMiddleware())

	secured.Post("/generate", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		// Precondition gate: the engine itself assumes this ran.
		completion, err := activityService.CheckCompletion(userID)
		if err != nil {
			return respondError(c, err)
		}
		if !completion.AllCompleted {
			return respondFail(c, fiber.StatusForbidden, "activities incomplete")
		}

		reward, qrImage, err := rewardService.Generate(userID)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, fiber.Map{
			"reward":        reward,
			"qr_code_image": qrImage,
		})
	})
}
