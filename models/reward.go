package models

import "time"

// Reward is the one-shot redeemable voucher issued to a user who finished
// every tracked tour activity. The unique index on UserID is the DB-level
// backstop for the one-reward-per-user rule; the unique index on QRToken
// makes the token usable as a bearer credential.
type Reward struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string     `gorm:"uniqueIndex;not null" json:"user_id"`
	ActivityID string     `gorm:"index;not null" json:"activity_id"`
	QRToken    string     `gorm:"column:qr_token;uniqueIndex;not null" json:"qr_token"`
	IsRedeemed bool       `gorm:"default:false" json:"is_redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Expired reports whether the reward can no longer be redeemed, regardless
// of its redemption state.
func (r *Reward) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Live reports whether the reward is still redeemable.
func (r *Reward) Live(now time.Time) bool {
	return !r.IsRedeemed && !r.Expired(now)
}

// RewardStatusInfo is the read-only view served to the status endpoint while
// the owner polls for a staff-side redemption.
type RewardStatusInfo struct {
	IsRedeemed bool       `json:"is_redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	IsExpired  bool       `json:"is_expired"`
	QRCodeURL  string     `json:"qr_code_url,omitempty"`
}
