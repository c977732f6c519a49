package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitCoachAPI/internal/notification"
	"fitCoachAPI/services"
	"fitCoachAPI/tests/helpers"
)

func TestNotificationFlow(t *testing.T) {
	db := helpers.SetupTestDB(t)

	userID := uuid.New()
	defer helpers.CleanupTestDB(t, db, userID)

	svc := services.NewNotificationService(db)
	svc.SetPushProvider(&services.MockPushProvider{})
	defer svc.Stop()

	ctx := context.Background()

	// Create
	notif, err := svc.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeStreakAtRisk,
		Title:  "Your streak is at risk",
		Body:   "Log a workout or meal today to keep your 5 day streak alive.",
		Data:   map[string]any{"current_streak": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, notification.StatusPending, notif.Status)

	// Give the dispatcher a moment to push and mark the row sent
	time.Sleep(500 * time.Millisecond)

	// List
	list, err := svc.GetNotifications(ctx, userID, 1, 20, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notif.ID, list.Notifications[0].ID)
	assert.Equal(t, 1, list.UnreadCount)

	// Mark read
	require.NoError(t, svc.MarkAsRead(ctx, notif.ID, userID))

	count, err := svc.GetUnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Marking someone else's notification fails
	err = svc.MarkAsRead(ctx, notif.ID, uuid.New())
	assert.Error(t, err)
}

func TestNotificationPreferences(t *testing.T) {
	db := helpers.SetupTestDB(t)

	userID := uuid.New()
	defer helpers.CleanupTestDB(t, db, userID)

	svc := services.NewNotificationService(db)
	defer svc.Stop()

	ctx := context.Background()

	// No row yet
	_, err := svc.GetPreferences(ctx, userID)
	assert.Error(t, err)

	// Registering a device creates default preferences; a repeat with the
	// same token must not duplicate it
	req := notification.RegisterDeviceRequest{Token: "fcm-token-1", Platform: "ios"}
	require.NoError(t, svc.RegisterDevice(ctx, userID, req))
	require.NoError(t, svc.RegisterDevice(ctx, userID, req))

	prefs, err := svc.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.True(t, prefs.PushEnabled)
	require.Len(t, prefs.DeviceTokens, 1)
	assert.Equal(t, "fcm-token-1", prefs.DeviceTokens[0].Token)

	// Disable push
	prefs, err = svc.SetPushEnabled(ctx, userID, false)
	require.NoError(t, err)
	assert.False(t, prefs.PushEnabled)
}
