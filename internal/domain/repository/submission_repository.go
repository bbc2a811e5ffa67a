package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/domain/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	// MarkProcessing moves a pending submission to Processing. A submission
	// that is missing or no longer pending reports common.ErrConflict, which
	// surfaces duplicate or stale queue entries.
	MarkProcessing(ctx context.Context, id string) error
	// RecordVerdict writes the terminal verdict exactly once; a submission
	// already in a terminal status is left untouched.
	RecordVerdict(ctx context.Context, tx *sql.Tx, id string, status model.SubmissionStatus, passed, total, memoryKb, timeMs int, errorMessage *string) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error)
	// ListAcceptedForContest feeds the post-contest recompute.
	ListAcceptedForContest(ctx context.Context, contestID string) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id, user_id, task_id, contest_id, language, code, status,
	tests_passed, tests_total, memory_kb, time_ms, error_message, created_at`

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, user_id, task_id, contest_id, language, code, status, tests_passed, tests_total, memory_kb, time_ms)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, 0, 0)`
	_, err := tx.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.TaskID, sub.ContestID, sub.Language, sub.Code, sub.Status)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.TaskID, &sub.ContestID, &sub.Language, &sub.Code, &sub.Status,
		&sub.TestsPassed, &sub.TestsTotal, &sub.MemoryKb, &sub.TimeMs, &sub.ErrorMessage, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.GetSubmissionByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) MarkProcessing(ctx context.Context, id string) error {
	query := `UPDATE submissions SET status = $1 WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, model.StatusProcessing, id, model.StatusPending)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.MarkProcessing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.MarkProcessing: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("submission %s is not pending: %w", id, common.ErrConflict)
	}
	return nil
}

func (r *pgSubmissionRepository) RecordVerdict(ctx context.Context, tx *sql.Tx, id string, status model.SubmissionStatus, passed, total, memoryKb, timeMs int, errorMessage *string) error {
	query := `UPDATE submissions
	          SET status = $1, tests_passed = $2, tests_total = $3, memory_kb = $4, time_ms = $5, error_message = $6
	          WHERE id = $7 AND status NOT IN ($8, $9, $10)`
	res, err := tx.ExecContext(ctx, query,
		status, passed, total, memoryKb, timeMs, errorMessage,
		id, model.StatusAccepted, model.StatusRejected, model.StatusError)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordVerdict: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordVerdict: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("submission %s already has a terminal verdict: %w", id, common.ErrConflict)
	}
	return nil
}

func (r *pgSubmissionRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListForUser: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows, "ListForUser")
}

func (r *pgSubmissionRepository) ListAcceptedForContest(ctx context.Context, contestID string) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE contest_id = $1 AND status = $2 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID, model.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListAcceptedForContest: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows, "ListAcceptedForContest")
}

func scanSubmissions(rows *sql.Rows, method string) ([]model.Submission, error) {
	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.TaskID, &sub.ContestID, &sub.Language, &sub.Code, &sub.Status,
			&sub.TestsPassed, &sub.TestsTotal, &sub.MemoryKb, &sub.TimeMs, &sub.ErrorMessage, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.%s scan: %w", method, err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
