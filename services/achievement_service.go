package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/achievement"
	"fitCoachAPI/utils"
)

const pgUniqueViolation = "23505"

type AchievementService struct {
	db       *pgxpool.Pool
	metrics  *MetricsService
	notifier utils.NotificationCreator
}

func NewAchievementService(db *pgxpool.Pool, metrics *MetricsService, notifier utils.NotificationCreator) *AchievementService {
	return &AchievementService{db: db, metrics: metrics, notifier: notifier}
}

// CheckAchievements evaluates the full catalog against a fresh metrics
// snapshot and grants whatever newly qualifies. Concurrent checks for the
// same user are safe: the (user_id, title) unique index arbitrates, and a
// check that loses the race treats the conflict as already-granted. The
// returned slice contains only the rows this call actually inserted.
func (s *AchievementService) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.Achievement, error) {
	snap, err := s.metrics.Snapshot(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}

	earned, err := s.earnedTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unlocked []*achievement.Achievement
	for _, def := range achievement.NewlyQualifying(snap, earned) {
		ach, err := s.insert(ctx, userID, def)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				// Lost the race to a concurrent evaluation. The achievement
				// exists, so there is nothing to grant and nothing to announce.
				continue
			}
			return unlocked, fmt.Errorf("failed to record achievement %q: %w", def.Title, err)
		}

		unlocked = append(unlocked, ach)
		achievementsUnlockedTotal.Inc()

		if s.notifier != nil {
			// Fire-and-forget: delivery problems never undo the unlock.
			go utils.AchievementUnlocked(s.notifier, userID, def)
		}
	}

	return unlocked, nil
}

// GetAchievements returns the whole catalog annotated with the user's
// unlock state, unlocked entries first.
func (s *AchievementService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.WithStatus, error) {
	rows, err := s.db.Query(ctx,
		`SELECT title, earned_at FROM achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	earnedAt := make(map[string]time.Time)
	for rows.Next() {
		var title string
		var at time.Time
		if err := rows.Scan(&title, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		earnedAt[title] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	var unlocked, locked []*achievement.WithStatus
	for _, def := range achievement.Catalog {
		st := &achievement.WithStatus{Definition: def}
		if at, ok := earnedAt[def.Title]; ok {
			st.Unlocked = true
			t := at
			st.EarnedAt = &t
			unlocked = append(unlocked, st)
			continue
		}
		locked = append(locked, st)
	}

	return append(unlocked, locked...), nil
}

func (s *AchievementService) earnedTitles(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	rows, err := s.db.Query(ctx, `SELECT title FROM achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earned titles: %w", err)
	}
	defer rows.Close()

	earned := make(map[string]bool)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		earned[title] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read earned titles: %w", err)
	}

	return earned, nil
}

func (s *AchievementService) insert(ctx context.Context, userID uuid.UUID, def achievement.Definition) (*achievement.Achievement, error) {
	query := `
	INSERT INTO achievements (user_id, category, title, description, icon, points)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, earned_at
	`

	ach := &achievement.Achievement{
		UserID:      userID,
		Category:    def.Category,
		Title:       def.Title,
		Description: def.Description,
		Icon:        def.Icon,
		Points:      def.Points,
	}

	err := s.db.QueryRow(ctx, query,
		userID, def.Category, def.Title, def.Description, def.Icon, def.Points,
	).Scan(&ach.ID, &ach.EarnedAt)
	if err != nil {
		return nil, err
	}

	return ach, nil
}
