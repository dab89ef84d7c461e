// services/sse_reward_service.go
package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"campus-tour-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamRewardStatusSSE pushes redemption state to the reward owner while
// they display their QR code, sparing the client its polling loop. The
// stream ends after the redeemed event is delivered, or when the client
// disconnects.
func (s *RewardService) StreamRewardStatusSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		var lastRedeemed, lastExpired bool
		sent := false

		for {
			select {
			case <-ticker.C:
				var reward models.Reward
				err := s.DB.Where("user_id = ?", userID).
					Order("created_at DESC").
					First(&reward).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				if err != nil {
					log.Printf("[SSE] status query failed for user %s: %v", userID, err)
					continue
				}

				info := s.statusInfo(&reward)
				if sent && info.IsRedeemed == lastRedeemed && info.IsExpired == lastExpired {
					continue
				}
				lastRedeemed, lastExpired = info.IsRedeemed, info.IsExpired
				sent = true

				payload, _ := json.Marshal(info)
				fmt.Fprintf(w, "event: reward_status\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
				if info.IsRedeemed {
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
