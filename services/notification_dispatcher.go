package services

import (
	"context"
	"log"
	"sync"
	"time"

	"fitCoachAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher drains queued notifications through a small
// worker pool. Delivery is strictly downstream of persistence: by the
// time a job is queued its row is already committed, so a failed push
// only updates the row's status.
type NotificationDispatcher struct {
	service      *NotificationService
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *DispatchJob
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

type DispatchJob struct {
	Notification *notification.Notification
	Preferences  *notification.Preferences
}

func NewNotificationDispatcher(service *NotificationService) *NotificationDispatcher {
	dispatcher := &NotificationDispatcher{
		service:  service,
		workers:  5,
		jobQueue: make(chan *DispatchJob, 100),
		stopChan: make(chan struct{}),
	}

	dispatcher.startWorkers()

	go dispatcher.cleanupOldNotifications()

	return dispatcher
}

func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(job *DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notif := job.Notification
	prefs := job.Preferences

	if prefs.PushEnabled && len(prefs.DeviceTokens) > 0 && d.pushProvider != nil {
		err := d.pushProvider.SendPush(ctx, prefs.DeviceTokens, notif.Title, notif.Body, notif.Data)
		if err != nil {
			log.Printf("Push failed for user %s: %v", notif.UserID, err)
			d.markAsFailed(ctx, notif.ID.String(), err)
			return
		}
	}

	d.markAsSent(ctx, notif.ID.String())
}

// DispatchNotification queues a notification for delivery. Blocks at most
// five seconds when the queue is saturated, then drops the push; the
// in-app row is already durable either way.
func (d *NotificationDispatcher) DispatchNotification(ctx context.Context, notif *notification.Notification, prefs *notification.Preferences) {
	job := &DispatchJob{
		Notification: notif,
		Preferences:  prefs,
	}

	select {
	case d.jobQueue <- job:
	case <-time.After(5 * time.Second):
		log.Printf("Failed to queue notification %s: queue full", notif.ID)
	}
}

// cleanupOldNotifications prunes read notifications older than 90 days,
// once a day.
func (d *NotificationDispatcher) cleanupOldNotifications() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.performCleanup()
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) performCleanup() {
	ctx := context.Background()

	query := `
	DELETE FROM notifications
	WHERE read_at < NOW() - INTERVAL '90 days'
	  AND status = 'read'
	`

	result, err := d.service.db.Exec(ctx, query)
	if err != nil {
		log.Printf("Failed to cleanup old notifications: %v", err)
		return
	}

	if rowsAffected := result.RowsAffected(); rowsAffected > 0 {
		log.Printf("Cleaned up %d old notifications", rowsAffected)
	}
}

func (d *NotificationDispatcher) markAsSent(ctx context.Context, notificationID string) {
	query := `
	UPDATE notifications
	SET status = 'sent', sent_at = NOW()
	WHERE id = $1
	`
	if _, err := d.service.db.Exec(ctx, query, notificationID); err != nil {
		log.Printf("Failed to mark notification %s as sent: %v", notificationID, err)
	}
}

func (d *NotificationDispatcher) markAsFailed(ctx context.Context, notificationID string, cause error) {
	query := `
	UPDATE notifications
	SET status = 'failed', failed_at = NOW(), failure_reason = $2
	WHERE id = $1
	`
	if _, err := d.service.db.Exec(ctx, query, notificationID, cause.Error()); err != nil {
		log.Printf("Failed to mark notification %s as failed: %v", notificationID, err)
	}
}

// Stop shuts the worker pool down gracefully.
func (d *NotificationDispatcher) Stop() {
	log.Println("Stopping notification dispatcher...")
	close(d.stopChan)
	d.wg.Wait()
	log.Println("Notification dispatcher stopped")
}

// MockPushProvider stands in for FCM in tests.
type MockPushProvider struct{}

func (m *MockPushProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	log.Printf("MOCK PUSH: sending to %d devices: %s - %s", len(tokens), title, body)
	return nil
}
