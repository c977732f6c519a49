package leaderboard

import "github.com/google/uuid"

type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	Points        int       `json:"points" db:"points"`
	Rank          int       `json:"rank" db:"rank"`
}

type Leaderboard struct {
	Entries    []*LeaderboardEntry `json:"entries"`
	TotalUsers int                 `json:"total_users"`
}
