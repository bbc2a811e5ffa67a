package service

import (
	"context"
	"database/sql"
	"time"

	"codearena/internal/app/scoring"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type ContestService struct {
	contestRepo    repository.ContestRepository
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	db             *sql.DB
	log            *zap.Logger
}

func NewContestService(
	contestRepo repository.ContestRepository,
	subRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	db *sql.DB,
	log *zap.Logger,
) *ContestService {
	return &ContestService{
		contestRepo:    contestRepo,
		submissionRepo: subRepo,
		taskRepo:       taskRepo,
		db:             db,
		log:            log,
	}
}

type CreateContestRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (s *ContestService) CreateContest(ctx context.Context, req CreateContestRequest) (*model.Contest, error) {
	if req.Title == "" || !req.EndsAt.After(req.StartsAt) {
		return nil, common.Errorf("title and a valid contest window are required: %w", common.ErrBadRequest)
	}

	contest := &model.Contest{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Slug:     slug.Make(req.Title),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := s.contestRepo.CreateContest(ctx, contest); err != nil {
		return nil, common.Errorf("failed to create contest: %w", err)
	}
	return contest, nil
}

func (s *ContestService) GetContest(ctx context.Context, id string) (*model.Contest, error) {
	return s.contestRepo.FindContestByID(ctx, id)
}

func (s *ContestService) ListContests(ctx context.Context, limit, offset int) ([]model.Contest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.contestRepo.ListContests(ctx, limit, offset)
}

func (s *ContestService) Leaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error) {
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.contestRepo.GetLeaderboard(ctx, contestID, limit)
}

// FinalizeContest runs the post-contest resource-based recompute. For each
// participant, accepted submissions are deduplicated to the most recent per
// task and scored by the logarithmic formula; the totals are added to the
// cumulative contest scores.
//
// The scores_processed flag flip and every increment share one transaction,
// so finalization applies at most once: a second invocation rolls back with
// ErrAlreadyScored and changes nothing.
func (s *ContestService) FinalizeContest(ctx context.Context, contestID string) error {
	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return common.Errorf("contest not found: %w", err)
	}
	if !contest.Ended(time.Now()) {
		return common.Errorf("contest has not ended yet: %w", common.ErrBadRequest)
	}
	if contest.ScoresProcessed {
		return common.ErrAlreadyScored
	}

	accepted, err := s.submissionRepo.ListAcceptedForContest(ctx, contestID)
	if err != nil {
		return common.Errorf("failed to list accepted submissions: %w", err)
	}

	byUser := make(map[string][]model.Submission)
	taskIDSet := make(map[string]struct{})
	for _, sub := range accepted {
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
		taskIDSet[sub.TaskID] = struct{}{}
	}
	taskIDs := make([]string, 0, len(taskIDSet))
	for id := range taskIDSet {
		taskIDs = append(taskIDs, id)
	}

	difficulties, err := s.taskRepo.GetDifficulties(ctx, taskIDs)
	if err != nil {
		return common.Errorf("failed to load task difficulties: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin finalization transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.MarkScoresProcessed(ctx, tx, contestID); err != nil {
		return err
	}

	for userID, subs := range byUser {
		total := scoring.Recompute(subs, difficulties)
		if total == 0 {
			continue
		}
		if err := s.contestRepo.IncrementScore(ctx, tx, contestID, userID, total); err != nil {
			return common.Errorf("failed to apply final score for user %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit finalization: %w", err)
	}

	s.log.Info("contest finalized",
		zap.String("contest_id", contestID),
		zap.Int("participants", len(byUser)))
	return nil
}
