package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAchievementUnlocked Type = "achievement_unlocked"
	TypeStreakAtRisk        Type = "streak_at_risk"
	TypeStreakBroken        Type = "streak_broken"
	TypeCoachMessage        Type = "coach_message"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusRead    Status = "read"
)

type Notification struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	UserID        uuid.UUID      `json:"user_id" db:"user_id"`
	Type          Type           `json:"type" db:"type"`
	Status        Status         `json:"status" db:"status"`
	Title         string         `json:"title" db:"title"`
	Body          string         `json:"body" db:"body"`
	Data          map[string]any `json:"data" db:"data"`
	SentAt        *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	ReadAt        *time.Time     `json:"read_at,omitempty" db:"read_at"`
	FailedAt      *time.Time     `json:"failed_at,omitempty" db:"failed_at"`
	FailureReason *string        `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token    string    `json:"token"`
	Platform string    `json:"platform"`
	AddedAt  time.Time `json:"added_at"`
	LastUsed time.Time `json:"last_used"`
}

type Preferences struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	UserID       uuid.UUID     `json:"user_id" db:"user_id"`
	PushEnabled  bool          `json:"push_enabled" db:"push_enabled"`
	DeviceTokens []DeviceToken `json:"device_tokens" db:"device_tokens"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}
