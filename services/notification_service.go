package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/notification"
)

type NotificationService struct {
	db         *pgxpool.Pool
	dispatcher *NotificationDispatcher
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	service := &NotificationService{db: db}
	service.dispatcher = NewNotificationDispatcher(service)
	return service
}

// SetPushProvider injects the real FCM provider from main.go. Without a
// provider, notifications stay in-app only.
func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

// Stop drains the dispatcher; called on shutdown.
func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

// CreateNotification persists the notification and hands it to the
// dispatcher. Dispatch runs async: a delivery failure is recorded on the
// row but never reaches the caller.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	dataJSON, _ := json.Marshal(req.Data)

	query := `
	INSERT INTO notifications (user_id, type, status, title, body, data)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, user_id, type, status, title, body, data, sent_at, read_at, failed_at, failure_reason, created_at
	`

	notif := &notification.Notification{}
	var dataStr string

	err := s.db.QueryRow(ctx, query,
		req.UserID, req.Type, notification.StatusPending, req.Title, req.Body, dataJSON,
	).Scan(
		&notif.ID, &notif.UserID, &notif.Type, &notif.Status,
		&notif.Title, &notif.Body, &dataStr,
		&notif.SentAt, &notif.ReadAt, &notif.FailedAt, &notif.FailureReason,
		&notif.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	json.Unmarshal([]byte(dataStr), &notif.Data)

	prefs, err := s.GetPreferences(ctx, req.UserID)
	if err != nil {
		prefs, err = s.createDefaultPreferences(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to create preferences: %w", err)
		}
	}

	go s.dispatcher.DispatchNotification(context.Background(), notif, prefs)

	return notif, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int, unreadOnly bool) (*notification.ListResponse, error) {
	offset := (page - 1) * pageSize
	whereClause := "WHERE user_id = $1"
	if unreadOnly {
		whereClause += " AND read_at IS NULL"
	}

	query := fmt.Sprintf(`
	SELECT id, user_id, type, status, title, body, data, sent_at, read_at, failed_at, failure_reason, created_at
	FROM notifications
	%s
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`, whereClause)

	rows, err := s.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		notif := &notification.Notification{}
		var dataStr string
		err := rows.Scan(
			&notif.ID, &notif.UserID, &notif.Type, &notif.Status,
			&notif.Title, &notif.Body, &dataStr,
			&notif.SentAt, &notif.ReadAt, &notif.FailedAt, &notif.FailureReason,
			&notif.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		json.Unmarshal([]byte(dataStr), &notif.Data)
		notifications = append(notifications, notif)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	var unreadCount, totalCount int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL", userID).Scan(&unreadCount); err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1", userID).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return &notification.ListResponse{
		Notifications: notifications,
		UnreadCount:   unreadCount,
		TotalCount:    totalCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var unreadCount int
	query := "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL"
	if err := s.db.QueryRow(ctx, query, userID).Scan(&unreadCount); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return unreadCount, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	query := `
	UPDATE notifications
	SET read_at = NOW(), status = $1
	WHERE id = $2 AND user_id = $3 AND read_at IS NULL
	`
	result, err := s.db.Exec(ctx, query, notification.StatusRead, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark as read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found or already read")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET read_at = NOW(), status = $1 WHERE user_id = $2 AND read_at IS NULL`
	_, err := s.db.Exec(ctx, query, notification.StatusRead, userID)
	return err
}

func (s *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*notification.Preferences, error) {
	query := `
	SELECT id, user_id, push_enabled, device_tokens, created_at, updated_at
	FROM notification_preferences
	WHERE user_id = $1
	`

	prefs := &notification.Preferences{}
	var deviceTokensStr string

	err := s.db.QueryRow(ctx, query, userID).Scan(
		&prefs.ID, &prefs.UserID, &prefs.PushEnabled,
		&deviceTokensStr, &prefs.CreatedAt, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("preferences not found")
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	json.Unmarshal([]byte(deviceTokensStr), &prefs.DeviceTokens)
	return prefs, nil
}

func (s *NotificationService) SetPushEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (*notification.Preferences, error) {
	query := `
	INSERT INTO notification_preferences (user_id, push_enabled)
	VALUES ($1, $2)
	ON CONFLICT (user_id)
	DO UPDATE SET push_enabled = $2, updated_at = NOW()
	RETURNING id
	`

	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, userID, enabled).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return s.GetPreferences(ctx, userID)
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req notification.RegisterDeviceRequest) error {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		prefs, err = s.createDefaultPreferences(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to create preferences: %w", err)
		}
	}

	tokenExists := false
	for i, token := range prefs.DeviceTokens {
		if token.Token == req.Token {
			prefs.DeviceTokens[i].LastUsed = time.Now()
			tokenExists = true
			break
		}
	}
	if !tokenExists {
		prefs.DeviceTokens = append(prefs.DeviceTokens, notification.DeviceToken{
			Token:    req.Token,
			Platform: req.Platform,
			AddedAt:  time.Now(),
			LastUsed: time.Now(),
		})
	}

	tokensJSON, _ := json.Marshal(prefs.DeviceTokens)
	query := `UPDATE notification_preferences SET device_tokens = $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := s.db.Exec(ctx, query, userID, tokensJSON); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	return nil
}

func (s *NotificationService) createDefaultPreferences(ctx context.Context, userID uuid.UUID) (*notification.Preferences, error) {
	query := `INSERT INTO notification_preferences (user_id) VALUES ($1) RETURNING id`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		return nil, err
	}
	return s.GetPreferences(ctx, userID)
}
