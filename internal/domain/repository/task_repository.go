package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"codearena/internal/common"
	"codearena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, tx *sql.Tx, task *model.Task) error
	FindTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, limit, offset int) ([]model.Task, error)
	GetTemplate(ctx context.Context, taskID, language string) (string, error)
	GetTestCasesByTaskID(ctx context.Context, taskID string) ([]model.TestCase, error)
	GetDifficulties(ctx context.Context, taskIDs []string) (map[string]model.TaskDifficulty, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) CreateTask(ctx context.Context, tx *sql.Tx, task *model.Task) error {
	query := `INSERT INTO tasks (id, title, slug, description, difficulty, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, query,
		task.ID, task.Title, task.Slug, task.Description, task.Difficulty, task.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("task with given slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTaskRepository.CreateTask: %w", err)
	}

	for _, tpl := range task.Templates {
		query := `INSERT INTO task_templates (id, task_id, language, template)
		          VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, task.ID, tpl.Language, tpl.Template); err != nil {
			return fmt.Errorf("pgTaskRepository.CreateTask templates: %w", err)
		}
	}

	for _, tc := range task.TestCases {
		query := `INSERT INTO test_cases (id, task_id, input, expected_output, sort_order)
		          VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, tc.ID, task.ID, tc.Input, tc.ExpectedOutput, tc.SortOrder); err != nil {
			return fmt.Errorf("pgTaskRepository.CreateTask test cases: %w", err)
		}
	}

	return nil
}

func (r *pgTaskRepository) FindTaskByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT id, title, slug, description, difficulty, created_by, created_at, updated_at
	          FROM tasks WHERE id = $1`
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Slug, &task.Description, &task.Difficulty,
		&task.CreatedByID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindTaskByID: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) ListTasks(ctx context.Context, limit, offset int) ([]model.Task, error) {
	query := `SELECT id, title, slug, description, difficulty, created_by, created_at, updated_at
	          FROM tasks ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListTasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Slug, &task.Description, &task.Difficulty,
			&task.CreatedByID, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListTasks scan: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *pgTaskRepository) GetTemplate(ctx context.Context, taskID, language string) (string, error) {
	query := `SELECT template FROM task_templates WHERE task_id = $1 AND language = $2`
	var template string
	err := r.db.QueryRowContext(ctx, query, taskID, language).Scan(&template)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("pgTaskRepository.GetTemplate: %w", err)
	}
	return template, nil
}

func (r *pgTaskRepository) GetTestCasesByTaskID(ctx context.Context, taskID string) ([]model.TestCase, error) {
	query := `SELECT id, task_id, input, expected_output, sort_order, created_at
	          FROM test_cases WHERE task_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.GetTestCasesByTaskID: %w", err)
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.TaskID, &tc.Input, &tc.ExpectedOutput, &tc.SortOrder, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.GetTestCasesByTaskID scan: %w", err)
		}
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}

func (r *pgTaskRepository) GetDifficulties(ctx context.Context, taskIDs []string) (map[string]model.TaskDifficulty, error) {
	if len(taskIDs) == 0 {
		return map[string]model.TaskDifficulty{}, nil
	}

	placeholders := make([]string, len(taskIDs))
	args := make([]interface{}, len(taskIDs))
	for i, id := range taskIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT id, difficulty FROM tasks WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.GetDifficulties: %w", err)
	}
	defer rows.Close()

	difficulties := make(map[string]model.TaskDifficulty, len(taskIDs))
	for rows.Next() {
		var id string
		var difficulty model.TaskDifficulty
		if err := rows.Scan(&id, &difficulty); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.GetDifficulties scan: %w", err)
		}
		difficulties[id] = difficulty
	}
	return difficulties, rows.Err()
}
