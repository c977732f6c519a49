package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/leaderboard"
)

type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetStreakLeaderboard ranks users by live streak, breaking ties on
// achievement points. Reads the swept streak values as-is; the sweeper
// keeps them honest.
func (s *LeaderboardService) GetStreakLeaderboard(ctx context.Context, limit int) (*leaderboard.Leaderboard, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := `
	SELECT
		st.user_id,
		st.current_streak,
		st.longest_streak,
		COALESCE(SUM(a.points), 0) AS points
	FROM streaks st
	LEFT JOIN achievements a ON a.user_id = st.user_id
	GROUP BY st.user_id, st.current_streak, st.longest_streak
	ORDER BY st.current_streak DESC, points DESC, st.longest_streak DESC
	LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	board := &leaderboard.Leaderboard{}
	rank := 0
	for rows.Next() {
		entry := &leaderboard.LeaderboardEntry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.CurrentStreak,
			&entry.LongestStreak,
			&entry.Points,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		rank++
		entry.Rank = rank
		board.Entries = append(board.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM streaks`).Scan(&board.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return board, nil
}
