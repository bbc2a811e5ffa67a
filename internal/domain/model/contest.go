package model

import (
	"time"
)

type Contest struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	ScoresProcessed bool      `json:"scores_processed"`
	CreatedAt       time.Time `json:"created_at"`
}

// Active reports whether the contest window contains the given instant.
func (c *Contest) Active(now time.Time) bool {
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}

// Ended reports whether the contest window has passed.
func (c *Contest) Ended(now time.Time) bool {
	return !now.Before(c.EndsAt)
}

// ParticipantScore is the cumulative score of one user in one contest. It is
// only ever mutated by increments, never overwritten.
type ParticipantScore struct {
	ContestID string    `json:"contest_id"`
	UserID    string    `json:"user_id"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}
