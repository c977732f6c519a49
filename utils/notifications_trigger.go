package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"fitCoachAPI/internal/achievement"
	"fitCoachAPI/internal/notification"
)

// NotificationCreator is the one method of the notification service the
// gamification triggers need. Keeping it an interface here means the
// achievement engine can be exercised in tests without a real dispatcher.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// AchievementUnlocked announces a freshly granted achievement. Errors are
// logged and swallowed: the unlock is already durable and a failed
// announcement must not surface to the caller.
func AchievementUnlocked(notifier NotificationCreator, userID uuid.UUID, def achievement.Definition) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeAchievementUnlocked,
		Title:  "Achievement unlocked!",
		Body:   fmt.Sprintf("%s: %s (+%d pts)", def.Title, def.Description, def.Points),
		Data: map[string]any{
			"achievement_id": def.ID,
			"category":       string(def.Category),
			"points":         def.Points,
		},
	}

	if _, err := notifier.CreateNotification(ctx, req); err != nil {
		log.Printf("Failed to create achievement notification for user %s: %v", userID, err)
	}
}

// StreakAtRisk nudges a user who has not yet satisfied today's goal.
func StreakAtRisk(notifier NotificationCreator, userID uuid.UUID, currentStreak int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeStreakAtRisk,
		Title:  "Your streak is at risk",
		Body:   fmt.Sprintf("Hit today's goal to keep your %d-day streak alive", currentStreak),
		Data: map[string]any{
			"current_streak": currentStreak,
		},
	}

	if _, err := notifier.CreateNotification(ctx, req); err != nil {
		log.Printf("Failed to create streak-risk notification for user %s: %v", userID, err)
	}
}
