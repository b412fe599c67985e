package dto

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"account_id"`
	Points    int64  `json:"points"`
}
