package service

import (
	"context"
	"database/sql"
	"time"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionService handles submission intake: it validates the request,
// persists a pending Submission and enqueues it for evaluation. The actual
// judging happens in EvaluationService, driven by the queue worker.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	contestRepo    repository.ContestRepository
	rdb            *redis.Client
	db             *sql.DB
	log            *zap.Logger
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	contestRepo repository.ContestRepository,
	rdb *redis.Client,
	db *sql.DB,
	log *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		taskRepo:       taskRepo,
		contestRepo:    contestRepo,
		rdb:            rdb,
		db:             db,
		log:            log,
	}
}

type CreateSubmissionRequest struct {
	TaskID    string  `json:"task_id"`
	ContestID *string `json:"contest_id,omitempty"`
	Language  string  `json:"language"`
	Code      string  `json:"code"`
}

func (s *SubmissionService) CreateSubmission(ctx context.Context, userID string, req CreateSubmissionRequest) (*model.Submission, error) {
	if req.Code == "" {
		return nil, common.Errorf("code is required: %w", common.ErrBadRequest)
	}
	if _, ok := config.AppConfig.LanguageIDs[req.Language]; !ok {
		return nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	task, err := s.taskRepo.FindTaskByID(ctx, req.TaskID)
	if err != nil {
		return nil, common.Errorf("task not found: %w", err)
	}

	// The task must carry a template for the requested language; the final
	// source is spliced together at evaluation time.
	if _, err := s.taskRepo.GetTemplate(ctx, task.ID, req.Language); err != nil {
		return nil, common.Errorf("task has no template for language %q: %w", req.Language, common.ErrBadRequest)
	}

	if req.ContestID != nil {
		contest, err := s.contestRepo.FindContestByID(ctx, *req.ContestID)
		if err != nil {
			return nil, common.Errorf("contest not found: %w", err)
		}
		if !contest.Active(time.Now()) {
			return nil, common.Errorf("contest window is closed: %w", common.ErrContestClosed)
		}
	}

	submission := &model.Submission{
		ID:        uuid.NewString(),
		UserID:    userID,
		TaskID:    task.ID,
		ContestID: req.ContestID,
		Language:  req.Language,
		Code:      req.Code,
		Status:    model.StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.CreateSubmission(ctx, tx, submission); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}

	// Push before commit so a queue failure rolls the record back instead
	// of leaving an orphaned pending submission.
	if err := s.rdb.LPush(ctx, config.AppConfig.EvaluationQueueName, submission.ID).Err(); err != nil {
		return nil, common.Errorf("failed to enqueue submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("submission enqueued",
		zap.String("submission_id", submission.ID),
		zap.String("task_id", task.ID),
		zap.String("language", req.Language))
	return submission, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	return s.submissionRepo.GetSubmissionByID(ctx, id)
}

func (s *SubmissionService) ListMySubmissions(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.submissionRepo.ListForUser(ctx, userID, limit, offset)
}
