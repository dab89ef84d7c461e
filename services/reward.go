// services/reward.go
package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"campus-tour-system/models"
	"campus-tour-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardTTL is how long an issued reward stays redeemable.
const RewardTTL = 24 * time.Hour

// RewardService drives the reward lifecycle: one-shot issuance per user,
// token-as-credential redemption, passive expiry.
type RewardService struct {
	DB           *gorm.DB
	ClientOrigin string

	now func() time.Time
}

func NewRewardService(db *gorm.DB, clientOrigin string) *RewardService {
	return &RewardService{
		DB:           db,
		ClientOrigin: strings.TrimRight(clientOrigin, "/"),
		now:          time.Now,
	}
}

// RedemptionURL is the payload encoded into the QR image. The scanner client
// opens it and posts the token back to the redeem endpoint.
func (s *RewardService) RedemptionURL(qrToken string) string {
	return fmt.Sprintf("%s/redeem?qrToken=%s", s.ClientOrigin, url.QueryEscape(qrToken))
}

// Generate issues the user's reward, or hands back the existing one while it
// is still unredeemed and unexpired so retries return the same QR artifact.
// A user who already burned their reward (redeemed or let it expire) cannot
// get another one. The caller is responsible for gating on activity
// completion before calling.
func (s *RewardService) Generate(userID string) (*models.Reward, string, error) {
	if userID == "" {
		return nil, "", models.NewDomainError(models.ErrKindValidation, "user id is required")
	}

	now := s.now()
	var reward models.Reward

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.Reward{}).
			Where("user_id = ?", userID).
			Count(&total).Error; err != nil {
			return err
		}

		if total > 0 {
			// Idempotent retry path: a live reward is returned as-is.
			var existing models.Reward
			err := tx.Where("user_id = ? AND is_redeemed = ? AND expires_at > ?", userID, false, now).
				First(&existing).Error
			if err == nil {
				reward = existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return models.NewDomainError(models.ErrKindAlreadyIssued, "reward already issued for this user")
		}

		// Target activity: the highest-ordered published stop of the tour.
		var activity models.Activity
		if err := tx.Where("status = ?", models.ContentStatusPublished).
			Order("sort_order DESC").
			First(&activity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewDomainError(models.ErrKindNotFound, "no activities found")
			}
			return err
		}

		reward = models.Reward{
			ID:         uuid.NewString(),
			UserID:     userID,
			ActivityID: activity.ID,
			QRToken:    uuid.NewString(),
			ExpiresAt:  now.Add(RewardTTL),
		}
		if err := tx.Create(&reward).Error; err != nil {
			// Concurrent double-submission lands on the user_id unique index.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewDomainError(models.ErrKindAlreadyIssued, "reward already issued for this user")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	qrImage, err := utils.QRCodeDataURL(s.RedemptionURL(reward.QRToken))
	if err != nil {
		log.Printf("[REWARD] QR render failed for reward %s: %v", reward.ID, err)
		return nil, "", err
	}
	return &reward, qrImage, nil
}

// Redeem flips the reward unredeemed→redeemed exactly once. Possession of
// the token is the sole authorization; the staff scanner is not a session
// user. Concurrent scans race on the conditional update, so exactly one of
// them sees an affected row.
func (s *RewardService) Redeem(qrToken string) (*models.Reward, error) {
	if qrToken == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "qrToken is required")
	}

	var reward models.Reward
	if err := s.DB.Where("qr_token = ?", qrToken).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "Invalid QR token")
		}
		return nil, err
	}

	now := s.now()
	if reward.Expired(now) {
		return nil, models.NewDomainError(models.ErrKindExpired, "reward has expired")
	}
	if reward.IsRedeemed {
		return nil, models.NewDomainError(models.ErrKindAlreadyRedeemed, "reward already redeemed")
	}

	res := s.DB.Model(&models.Reward{}).
		Where("qr_token = ? AND is_redeemed = ?", qrToken, false).
		Updates(map[string]interface{}{
			"is_redeemed": true,
			"redeemed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race against another scanner.
		return nil, models.NewDomainError(models.ErrKindAlreadyRedeemed, "reward already redeemed")
	}

	log.Printf("[REWARD] Redeemed reward %s (user %s)", reward.ID, reward.UserID)
	reward.IsRedeemed = true
	reward.RedeemedAt = &now
	return &reward, nil
}

// StatusByToken reports redemption state for the holder of a token.
func (s *RewardService) StatusByToken(qrToken string) (*models.RewardStatusInfo, error) {
	var reward models.Reward
	if err := s.DB.Where("qr_token = ?", qrToken).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "Invalid QR token")
		}
		return nil, err
	}
	return s.statusInfo(&reward), nil
}

// StatusForUser reports redemption state of the session user's reward. The
// owner polls this while displaying their QR code.
func (s *RewardService) StatusForUser(userID string) (*models.RewardStatusInfo, error) {
	var reward models.Reward
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "no reward issued for this user")
		}
		return nil, err
	}
	return s.statusInfo(&reward), nil
}

func (s *RewardService) statusInfo(reward *models.Reward) *models.RewardStatusInfo {
	info := &models.RewardStatusInfo{
		IsRedeemed: reward.IsRedeemed,
		RedeemedAt: reward.RedeemedAt,
		IsExpired:  reward.Expired(s.now()),
	}
	if reward.Live(s.now()) {
		info.QRCodeURL = s.RedemptionURL(reward.QRToken)
	}
	return info
}
