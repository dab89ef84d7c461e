package services

import (
	"testing"
	"time"

	"campus-tour-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database with the full schema.
// MaxOpenConns(1) keeps every connection on the same in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Activity{},
		&models.ActivityCompletion{},
		&models.Reward{},
		&models.CrosswordPuzzle{},
		&models.PuzzleWord{},
		&models.UserPuzzleProgress{},
		&models.TourUser{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedActivities(t *testing.T, db *gorm.DB, count int) []models.Activity {
	t.Helper()

	activities := make([]models.Activity, 0, count)
	for i := 0; i < count; i++ {
		activity := models.Activity{
			ID:        uuid.NewString(),
			Name:      "Stop " + uuid.NewString()[:8],
			Slug:      uuid.NewString(),
			SortOrder: i + 1,
			Status:    models.ContentStatusPublished,
		}
		if err := db.Create(&activity).Error; err != nil {
			t.Fatalf("seed activity: %v", err)
		}
		activities = append(activities, activity)
	}
	return activities
}

func completeAll(t *testing.T, db *gorm.DB, userID string, activities []models.Activity) {
	t.Helper()

	for _, activity := range activities {
		completion := models.ActivityCompletion{
			ID:          uuid.NewString(),
			UserID:      userID,
			ActivityID:  activity.ID,
			CompletedAt: time.Now(),
		}
		if err := db.Create(&completion).Error; err != nil {
			t.Fatalf("seed completion: %v", err)
		}
	}
}

func seedPuzzle(t *testing.T, db *gorm.DB) models.CrosswordPuzzle {
	t.Helper()

	puzzle := models.CrosswordPuzzle{
		ID:     uuid.NewString(),
		Title:  "Campus Landmarks",
		Slug:   uuid.NewString(),
		Rows:   5,
		Cols:   5,
		Status: models.ContentStatusPublished,
		Words: []models.PuzzleWord{
			{ID: uuid.NewString(), Number: 1, Answer: "QUAD", Clue: "Central lawn", Row: 0, Col: 0, Direction: models.DirectionAcross},
			{ID: uuid.NewString(), Number: 2, Answer: "QUIZ", Clue: "Pop test", Row: 0, Col: 0, Direction: models.DirectionDown},
		},
	}
	for i := range puzzle.Words {
		puzzle.Words[i].PuzzleID = puzzle.ID
	}
	if err := db.Create(&puzzle).Error; err != nil {
		t.Fatalf("seed puzzle: %v", err)
	}
	return puzzle
}
