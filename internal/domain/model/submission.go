package model

import "time"

type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "Pending"
	StatusProcessing SubmissionStatus = "Processing"
	StatusAccepted   SubmissionStatus = "Accepted"
	StatusRejected   SubmissionStatus = "Rejected"
	StatusError      SubmissionStatus = "Error"
)

// Terminal reports whether the status will never change again.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusError
}

// Submission is one user's attempt at one task, optionally inside a contest.
// The verdict fields are written exactly once, when evaluation finishes, and
// are immutable afterwards.
//
// Invariants: TestsPassed <= TestsTotal; MemoryKb/TimeMs accumulate metrics
// from passing test cases only.
type Submission struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	TaskID       string           `json:"task_id"`
	ContestID    *string          `json:"contest_id,omitempty"`
	Language     string           `json:"language"`
	Code         string           `json:"code"`
	Status       SubmissionStatus `json:"status"`
	TestsPassed  int              `json:"tests_passed"`
	TestsTotal   int              `json:"tests_total"`
	MemoryKb     int              `json:"memory_kb"`
	TimeMs       int              `json:"time_ms"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`

	UserUsername *string `json:"user_username,omitempty"` // for display
	TaskTitle    *string `json:"task_title,omitempty"`    // for display
}
