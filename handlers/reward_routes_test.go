package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-tour-system/models"
	"campus-tour-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Activity{},
		&models.ActivityCompletion{},
		&models.Reward{},
		&models.CrosswordPuzzle{},
		&models.PuzzleWord{},
		&models.UserPuzzleProgress{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Gateway auth sits in front of these routes in production; the tests
	// exercise the handlers directly.
	app := fiber.New()
	SetupRewardRoutes(app, services.NewRewardService(db, "http://localhost:3000"), services.NewActivityService(db), nil)
	SetupCrosswordRoutes(app, services.NewCrosswordService(db))
	SetupActivityRoutes(app, services.NewActivityService(db))
	return app, db
}

func seedPublishedActivity(t *testing.T, db *gorm.DB, order int) models.Activity {
	t.Helper()
	activity := models.Activity{
		ID:        uuid.NewString(),
		Name:      "Stop " + uuid.NewString()[:8],
		Slug:      uuid.NewString(),
		SortOrder: order,
		Status:    models.ContentStatusPublished,
	}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return activity
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestGenerateRequiresUserContext(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/rewards/generate", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if env.Status != "fail" {
		t.Fatalf("envelope status = %q, want fail", env.Status)
	}
}

func TestGenerateGatedOnCompletion(t *testing.T) {
	app, db := setupTestApp(t)
	seedPublishedActivity(t, db, 1)

	resp, env := doJSON(t, app, http.MethodPost, "/api/rewards/generate", "visitor-1", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	if env.Message != "activities incomplete" {
		t.Fatalf("message = %q", env.Message)
	}

	var count int64
	db.Model(&models.Reward{}).Count(&count)
	if count != 0 {
		t.Fatalf("reward rows = %d, want 0", count)
	}
}

func TestGenerateRedeemFlow(t *testing.T) {
	app, db := setupTestApp(t)
	activity := seedPublishedActivity(t, db, 1)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/activities/"+activity.ID+"/complete", "visitor-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}

	resp, env := doJSON(t, app, http.MethodPost, "/api/rewards/generate", "visitor-1", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate status = %d, want 201 (%s)", resp.StatusCode, env.Message)
	}
	var payload struct {
		Reward      models.Reward `json:"reward"`
		QRCodeImage string        `json:"qr_code_image"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if payload.QRCodeImage == "" || payload.Reward.QRToken == "" {
		t.Fatalf("incomplete payload: %+v", payload)
	}

	// Redemption needs no user header at all.
	resp, env = doJSON(t, app, http.MethodPost, "/api/rewards/redeem", "", map[string]string{"qrToken": payload.Reward.QRToken})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem status = %d (%s)", resp.StatusCode, env.Message)
	}

	resp, env = doJSON(t, app, http.MethodPost, "/api/rewards/redeem", "", map[string]string{"qrToken": payload.Reward.QRToken})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second redeem status = %d, want 409", resp.StatusCode)
	}
	if env.Status != "fail" || env.Message != "reward already redeemed" {
		t.Fatalf("second redeem envelope = %+v", env)
	}

	// The owner's poll sees the redemption.
	resp, env = doJSON(t, app, http.MethodGet, "/api/rewards/status", "visitor-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status status = %d", resp.StatusCode)
	}
	var info models.RewardStatusInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !info.IsRedeemed {
		t.Fatalf("status info = %+v, want redeemed", info)
	}
}

func TestRedeemUnknownTokenEnvelope(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/rewards/redeem", "", map[string]string{"qrToken": uuid.NewString()})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Status != "fail" || env.Message != "Invalid QR token" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestCrosswordRoutes(t *testing.T) {
	app, db := setupTestApp(t)

	puzzle := models.CrosswordPuzzle{
		ID:     uuid.NewString(),
		Title:  "Campus Landmarks",
		Slug:   "campus-landmarks",
		Rows:   5,
		Cols:   5,
		Status: models.ContentStatusPublished,
	}
	if err := db.Create(&puzzle).Error; err != nil {
		t.Fatalf("seed puzzle: %v", err)
	}

	// Progress before start is a null payload, not an error.
	resp, env := doJSON(t, app, http.MethodGet, "/api/crossword/"+puzzle.ID+"/progress", "visitor-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress status = %d", resp.StatusCode)
	}
	if string(env.Data) != "null" {
		t.Fatalf("data = %s, want null", env.Data)
	}

	// But updating before start is a 404.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/crossword/"+puzzle.ID+"/progress", "visitor-1", map[string]int{"time_spent": 30})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update-before-start status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/crossword/"+puzzle.ID+"/start", "visitor-1", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status = %d, want 201", resp.StatusCode)
	}

	resp, env = doJSON(t, app, http.MethodPost, "/api/crossword/"+puzzle.ID+"/start", "visitor-1", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("restart status = %d, want 409", resp.StatusCode)
	}
	if env.Message != "puzzle already started" {
		t.Fatalf("restart message = %q", env.Message)
	}

	resp, env = doJSON(t, app, http.MethodPut, "/api/crossword/"+puzzle.ID+"/progress", "visitor-1", map[string]interface{}{
		"time_spent": 600,
		"hints_used": 3,
		"completed":  true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d (%s)", resp.StatusCode, env.Message)
	}
	var progress models.UserPuzzleProgress
	if err := json.Unmarshal(env.Data, &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if !progress.IsCompleted || progress.Score != 1140 {
		t.Fatalf("progress = %+v, want completed with score 1140", progress)
	}
}

func TestAdminRoutesRequireRole(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewBufferString(`{"name":"Gate"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "visitor-1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without admin role", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewBufferString(`{"name":"Gate","status":"published"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "staff-1")
	req.Header.Set("X-User-Roles", "admin")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201 with admin role", resp.StatusCode)
	}
}
