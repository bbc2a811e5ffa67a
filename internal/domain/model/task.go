package model

import (
	"time"
)

type TaskDifficulty string

const (
	DifficultyEasy   TaskDifficulty = "easy"
	DifficultyMedium TaskDifficulty = "medium"
	DifficultyHard   TaskDifficulty = "hard"
)

// UserCodeMarker is the placeholder inside a task's per-language template
// where the submitted code is spliced in to build the final source.
const UserCodeMarker = "##USER_CODE_HERE##"

type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Difficulty  TaskDifficulty `json:"difficulty"`
	CreatedByID *string        `json:"created_by_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Templates []CodeTemplate `json:"templates,omitempty"`
	TestCases []TestCase     `json:"test_cases,omitempty"` // hidden, admin only view
}

// CodeTemplate is the per-language scaffold a task ships with. The template
// must contain UserCodeMarker exactly where user code belongs.
type CodeTemplate struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Language string `json:"language"`
	Template string `json:"template"`
}

type TestCase struct {
	ID             string    `json:"id"`
	TaskID         string    `json:"task_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
