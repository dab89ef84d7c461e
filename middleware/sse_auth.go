// middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"campus-tour-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates the `token` query param via the auth service.
// EventSource cannot set request headers, so the SSE stream authenticates
// out of band instead of relying on gateway user headers.
//
// Usage:
//
//	app.Get("/api/rewards/status/stream", middleware.SSEAuthMiddleware(authClient), rewardService.StreamRewardStatusSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(c.Query("token"))
		if accessToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "fail",
				"message": "missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[SSE_AUTH] token validation failed on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "fail",
				"message": "unauthorized",
			})
		}

		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)
		return c.Next()
	}
}
