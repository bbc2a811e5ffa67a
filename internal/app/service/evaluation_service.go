package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"codearena/internal/app/judge"
	"codearena/internal/app/scoring"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"go.uber.org/zap"
)

// Evaluator is what EvaluationService needs from the judge pipeline.
type Evaluator interface {
	Evaluate(ctx context.Context, source, language string, cases []model.TestCase) []judge.CaseResult
}

// EvaluationService is the single owner of the judging flow: splice the
// source, run the test cases through the judge, aggregate the verdict,
// persist it and apply the live contest award. Every call site that needs a
// submission evaluated goes through here.
type EvaluationService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	contestRepo    repository.ContestRepository
	evaluator      Evaluator
	db             *sql.DB
	log            *zap.Logger
}

func NewEvaluationService(
	subRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	contestRepo repository.ContestRepository,
	evaluator Evaluator,
	db *sql.DB,
	log *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		submissionRepo: subRepo,
		taskRepo:       taskRepo,
		contestRepo:    contestRepo,
		evaluator:      evaluator,
		db:             db,
		log:            log,
	}
}

// EvaluateSubmission runs the full pipeline for one pending submission.
// Whatever happens, the submission ends in a terminal status; judging
// failures never escape as panics or dangling Processing records.
func (s *EvaluationService) EvaluateSubmission(ctx context.Context, submissionID string) error {
	sub, err := s.submissionRepo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return common.Errorf("submission %s not found: %w", submissionID, err)
	}
	if sub.Status.Terminal() {
		s.log.Warn("submission already evaluated, skipping",
			zap.String("submission_id", submissionID),
			zap.String("status", string(sub.Status)))
		return nil
	}

	if err := s.submissionRepo.MarkProcessing(ctx, submissionID); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Duplicate queue entry or a concurrent worker got here first.
			s.log.Warn("submission no longer pending, skipping",
				zap.String("submission_id", submissionID))
			return nil
		}
		return common.Errorf("failed to mark submission processing: %w", err)
	}

	task, err := s.taskRepo.FindTaskByID(ctx, sub.TaskID)
	if err != nil {
		return s.failSubmission(ctx, sub, "task is no longer available")
	}

	template, err := s.taskRepo.GetTemplate(ctx, task.ID, sub.Language)
	if err != nil {
		return s.failSubmission(ctx, sub, "no code template for language "+sub.Language)
	}
	source := strings.Replace(template, model.UserCodeMarker, sub.Code, 1)

	cases, err := s.taskRepo.GetTestCasesByTaskID(ctx, task.ID)
	if err != nil || len(cases) == 0 {
		return s.failSubmission(ctx, sub, "task has no test cases")
	}

	results := s.evaluator.Evaluate(ctx, source, sub.Language, cases)
	verdict := judge.Aggregate(results)

	var errorMessage *string
	if verdict.Diagnostic != "" {
		errorMessage = &verdict.Diagnostic
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin verdict transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.RecordVerdict(ctx, tx, sub.ID,
		verdict.Status, verdict.Passed, verdict.Total, verdict.MemoryKb, verdict.TimeMs, errorMessage); err != nil {
		return common.Errorf("failed to record verdict: %w", err)
	}

	// Live award: fixed points by difficulty, once per accepted submission,
	// only while the contest window is still open.
	if verdict.Status == model.StatusAccepted {
		if award := s.liveAwardAmount(ctx, sub, task); award > 0 {
			if err := s.contestRepo.IncrementScore(ctx, tx, *sub.ContestID, sub.UserID, award); err != nil {
				return common.Errorf("failed to apply live award: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit verdict: %w", err)
	}

	s.log.Info("submission evaluated",
		zap.String("submission_id", sub.ID),
		zap.String("status", string(verdict.Status)),
		zap.Int("passed", verdict.Passed),
		zap.Int("total", verdict.Total))
	return nil
}

// liveAwardAmount returns the fixed in-contest award an accepted submission
// earns, or zero when none applies. A failed contest lookup forfeits the
// award, never the verdict itself.
func (s *EvaluationService) liveAwardAmount(ctx context.Context, sub *model.Submission, task *model.Task) float64 {
	if sub.ContestID == nil {
		return 0
	}
	contest, err := s.contestRepo.FindContestByID(ctx, *sub.ContestID)
	if err != nil {
		s.log.Warn("contest lookup failed, skipping live award",
			zap.String("submission_id", sub.ID),
			zap.String("contest_id", *sub.ContestID),
			zap.Error(err))
		return 0
	}
	if !contest.Active(time.Now()) {
		return 0
	}
	return scoring.LiveAward(task.Difficulty)
}

// failSubmission records a terminal Error verdict when the pipeline cannot
// run at all (missing task, template or test cases).
func (s *EvaluationService) failSubmission(ctx context.Context, sub *model.Submission, reason string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.RecordVerdict(ctx, tx, sub.ID,
		model.StatusError, 0, 0, 0, 0, &reason); err != nil {
		return common.Errorf("failed to record error verdict: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit error verdict: %w", err)
	}

	s.log.Error("submission failed before judging",
		zap.String("submission_id", sub.ID),
		zap.String("reason", reason))
	return nil
}
