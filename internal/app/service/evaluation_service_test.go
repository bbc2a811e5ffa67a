package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codearena/internal/app/judge"
	"codearena/internal/app/scoring"
	"codearena/internal/common"
	"codearena/internal/domain/model"

	"go.uber.org/zap"
)

type fakeEvaluator struct {
	calls int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, source, language string, cases []model.TestCase) []judge.CaseResult {
	f.calls++
	return nil
}

func contestID(id string) *string { return &id }

// A submission another worker already claimed (or a duplicate queue entry)
// is skipped without judging or a second verdict.
func TestEvaluateSubmissionSkipsWhenNoLongerPending(t *testing.T) {
	t.Parallel()
	subRepo := &fakeSubmissionRepo{
		getByID: func(ctx context.Context, id string) (*model.Submission, error) {
			return &model.Submission{ID: id, Status: model.StatusPending}, nil
		},
		markProcessing: func(ctx context.Context, id string) error {
			return fmt.Errorf("submission %s is not pending: %w", id, common.ErrConflict)
		},
	}
	evaluator := &fakeEvaluator{}
	svc := NewEvaluationService(subRepo, &fakeTaskRepo{}, &fakeContestRepo{}, evaluator, nil, zap.NewNop())

	if err := svc.EvaluateSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("expected nil for a claimed submission, got %v", err)
	}
	if evaluator.calls != 0 {
		t.Fatalf("expected no judging, evaluator ran %d times", evaluator.calls)
	}
	if subRepo.verdicts != 0 {
		t.Fatalf("expected no verdict writes, got %d", subRepo.verdicts)
	}
}

// A failed contest lookup forfeits the live award; it must not surface as an
// error that would abort the verdict.
func TestLiveAwardForfeitedWhenContestLookupFails(t *testing.T) {
	t.Parallel()
	contestRepo := &fakeContestRepo{
		findContestByID: func(ctx context.Context, id string) (*model.Contest, error) {
			return nil, common.ErrNotFound
		},
	}
	svc := NewEvaluationService(&fakeSubmissionRepo{}, &fakeTaskRepo{}, contestRepo, &fakeEvaluator{}, nil, zap.NewNop())

	sub := &model.Submission{ID: "sub-1", UserID: "u1", ContestID: contestID("c1")}
	task := &model.Task{ID: "t1", Difficulty: model.DifficultyMedium}
	if award := svc.liveAwardAmount(context.Background(), sub, task); award != 0 {
		t.Fatalf("expected no award on lookup failure, got %v", award)
	}
}

func TestLiveAwardWindow(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tests := []struct {
		name     string
		startsAt time.Time
		endsAt   time.Time
		want     float64
	}{
		{"active contest", now.Add(-time.Hour), now.Add(time.Hour), scoring.LiveAward(model.DifficultyHard)},
		{"ended contest", now.Add(-2 * time.Hour), now.Add(-time.Hour), 0},
		{"future contest", now.Add(time.Hour), now.Add(2 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			contestRepo := &fakeContestRepo{
				findContestByID: func(ctx context.Context, id string) (*model.Contest, error) {
					return &model.Contest{ID: id, StartsAt: tt.startsAt, EndsAt: tt.endsAt}, nil
				},
			}
			svc := NewEvaluationService(&fakeSubmissionRepo{}, &fakeTaskRepo{}, contestRepo, &fakeEvaluator{}, nil, zap.NewNop())

			sub := &model.Submission{ID: "sub-1", UserID: "u1", ContestID: contestID("c1")}
			task := &model.Task{ID: "t1", Difficulty: model.DifficultyHard}
			if got := svc.liveAwardAmount(context.Background(), sub, task); got != tt.want {
				t.Fatalf("expected award %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLiveAwardOutsideContest(t *testing.T) {
	t.Parallel()
	svc := NewEvaluationService(&fakeSubmissionRepo{}, &fakeTaskRepo{}, &fakeContestRepo{}, &fakeEvaluator{}, nil, zap.NewNop())

	sub := &model.Submission{ID: "sub-1", UserID: "u1"}
	task := &model.Task{ID: "t1", Difficulty: model.DifficultyEasy}
	if got := svc.liveAwardAmount(context.Background(), sub, task); got != 0 {
		t.Fatalf("expected no award outside a contest, got %v", got)
	}
}
