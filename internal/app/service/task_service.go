package service

import (
	"context"
	"database/sql"
	"strings"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	db       *sql.DB
}

func NewTaskService(taskRepo repository.TaskRepository, db *sql.DB) *TaskService {
	return &TaskService{taskRepo: taskRepo, db: db}
}

type CreateTaskRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Difficulty  model.TaskDifficulty `json:"difficulty"`
	Templates   []TemplateInput      `json:"templates"`
	TestCases   []TestCaseInput      `json:"test_cases"`
}

type TemplateInput struct {
	Language string `json:"language"`
	Template string `json:"template"`
}

type TestCaseInput struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

func (s *TaskService) CreateTask(ctx context.Context, creatorID string, req CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" || len(req.TestCases) == 0 || len(req.Templates) == 0 {
		return nil, common.Errorf("title, templates and test cases are required: %w", common.ErrBadRequest)
	}
	switch req.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, common.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrBadRequest)
	}
	for _, tpl := range req.Templates {
		if !strings.Contains(tpl.Template, model.UserCodeMarker) {
			return nil, common.Errorf("template for %s lacks the %s marker: %w",
				tpl.Language, model.UserCodeMarker, common.ErrBadRequest)
		}
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Difficulty:  req.Difficulty,
		CreatedByID: &creatorID,
	}
	for _, tpl := range req.Templates {
		task.Templates = append(task.Templates, model.CodeTemplate{
			ID:       uuid.NewString(),
			TaskID:   task.ID,
			Language: tpl.Language,
			Template: tpl.Template,
		})
	}
	for i, tc := range req.TestCases {
		task.TestCases = append(task.TestCases, model.TestCase{
			ID:             uuid.NewString(),
			TaskID:         task.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			SortOrder:      i,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.taskRepo.CreateTask(ctx, tx, task); err != nil {
		return nil, common.Errorf("failed to create task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.taskRepo.FindTaskByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, limit, offset int) ([]model.Task, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.taskRepo.ListTasks(ctx, limit, offset)
}
