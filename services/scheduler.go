// services/scheduler.go
package services

import (
	"log"
	"time"

	"campus-tour-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartPublishScheduler flips scheduled activities and puzzles to published
// once their publish time passes. Reward expiry deliberately has no sweep:
// it is checked at redemption and status time.
func StartPublishScheduler(db *gorm.DB) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			publishDue(db, &models.Activity{}, "activity", now)
			publishDue(db, &models.CrosswordPuzzle{}, "puzzle", now)
		}),
	)
}

func publishDue(db *gorm.DB, model interface{}, label string, now time.Time) {
	res := db.Model(model).
		Where("status = ? AND publish_at <= ?", models.ContentStatusScheduled, now).
		Updates(map[string]interface{}{
			"status":     models.ContentStatusPublished,
			"publish_at": nil,
		})
	if res.Error != nil {
		log.Printf("[Scheduler] %s publish sweep failed: %v", label, res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[Scheduler] Published %d scheduled %s(s)", res.RowsAffected, label)
	}
}
