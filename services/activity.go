// services/activity.go
package services

import (
	"errors"
	"time"

	"campus-tour-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityService owns the activity catalog and the completion oracle the
// reward flow gates on.
type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

// CheckCompletion reports how much of the published tour the user has
// finished. Every read is authoritative; nothing is cached between requests.
func (s *ActivityService) CheckCompletion(userID string) (*models.CompletionStatus, error) {
	if userID == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "user id is required")
	}

	var total int64
	if err := s.DB.Model(&models.Activity{}).
		Where("status = ?", models.ContentStatusPublished).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, models.NewDomainError(models.ErrKindNotFound, "no activities found")
	}

	var completed int64
	if err := s.DB.Model(&models.ActivityCompletion{}).
		Where("user_id = ?", userID).
		Where("activity_id IN (?)", s.DB.Model(&models.Activity{}).
			Select("id").
			Where("status = ?", models.ContentStatusPublished)).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	return &models.CompletionStatus{
		AllCompleted:   completed >= total,
		CompletedCount: completed,
		TotalCount:     total,
	}, nil
}

// CompleteActivity marks one activity done for the user. Repeat calls are
// absorbed by the composite unique index instead of erroring.
func (s *ActivityService) CompleteActivity(userID, activityID string) (*models.ActivityCompletion, error) {
	if userID == "" || activityID == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "user id and activity id are required")
	}

	var activity models.Activity
	if err := s.DB.Where("id = ? AND status = ?", activityID, models.ContentStatusPublished).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "activity not found")
		}
		return nil, err
	}

	completion := models.ActivityCompletion{
		ID:          uuid.NewString(),
		UserID:      userID,
		ActivityID:  activityID,
		CompletedAt: time.Now(),
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
		DoNothing: true,
	}).Create(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

// ListActivities returns the published tour in itinerary order.
func (s *ActivityService) ListActivities() ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.DB.Where("status = ?", models.ContentStatusPublished).
		Order("sort_order ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivityInput is the admin payload for a new tour stop.
type CreateActivityInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	SortOrder   int                  `json:"sort_order"`
	Status      models.ContentStatus `json:"status"`
	PublishAt   *time.Time           `json:"publish_at"`
}

// CreateActivity adds a tour stop. Scheduled activities go live via the
// publish sweep once PublishAt passes.
func (s *ActivityService) CreateActivity(in CreateActivityInput) (*models.Activity, error) {
	if in.Name == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "name is required")
	}
	switch in.Status {
	case "":
		in.Status = models.ContentStatusDraft
	case models.ContentStatusDraft, models.ContentStatusPublished:
	case models.ContentStatusScheduled:
		if in.PublishAt == nil {
			return nil, models.NewDomainError(models.ErrKindValidation, "publish_at is required for scheduled activities")
		}
	default:
		return nil, models.NewDomainError(models.ErrKindValidation, "invalid status")
	}

	activity := models.Activity{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Location:    in.Location,
		SortOrder:   in.SortOrder,
		Status:      in.Status,
		PublishAt:   in.PublishAt,
	}
	if err := s.DB.Create(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewDomainError(models.ErrKindConflict, "an activity with this name already exists")
		}
		return nil, err
	}
	return &activity, nil
}
