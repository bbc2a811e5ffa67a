package service

import (
	"context"
	"database/sql"

	"codearena/internal/domain/model"
)

// Hand-rolled repository fakes. Only the function fields a test sets are
// expected to be called; everything else returns zero values.

type fakeContestRepo struct {
	findContestByID func(ctx context.Context, id string) (*model.Contest, error)
	increments      []float64
}

func (f *fakeContestRepo) CreateContest(ctx context.Context, contest *model.Contest) error {
	return nil
}

func (f *fakeContestRepo) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	return f.findContestByID(ctx, id)
}

func (f *fakeContestRepo) ListContests(ctx context.Context, limit, offset int) ([]model.Contest, error) {
	return nil, nil
}

func (f *fakeContestRepo) MarkScoresProcessed(ctx context.Context, tx *sql.Tx, contestID string) error {
	return nil
}

func (f *fakeContestRepo) IncrementScore(ctx context.Context, tx *sql.Tx, contestID, userID string, delta float64) error {
	f.increments = append(f.increments, delta)
	return nil
}

func (f *fakeContestRepo) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

type fakeSubmissionRepo struct {
	getByID        func(ctx context.Context, id string) (*model.Submission, error)
	markProcessing func(ctx context.Context, id string) error
	accepted       []model.Submission
	verdicts       int
}

func (f *fakeSubmissionRepo) CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	return nil
}

func (f *fakeSubmissionRepo) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	return f.getByID(ctx, id)
}

func (f *fakeSubmissionRepo) MarkProcessing(ctx context.Context, id string) error {
	if f.markProcessing != nil {
		return f.markProcessing(ctx, id)
	}
	return nil
}

func (f *fakeSubmissionRepo) RecordVerdict(ctx context.Context, tx *sql.Tx, id string, status model.SubmissionStatus, passed, total, memoryKb, timeMs int, errorMessage *string) error {
	f.verdicts++
	return nil
}

func (f *fakeSubmissionRepo) ListForUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) ListAcceptedForContest(ctx context.Context, contestID string) ([]model.Submission, error) {
	return f.accepted, nil
}

type fakeTaskRepo struct {
	difficulties map[string]model.TaskDifficulty
}

func (f *fakeTaskRepo) CreateTask(ctx context.Context, tx *sql.Tx, task *model.Task) error {
	return nil
}

func (f *fakeTaskRepo) FindTaskByID(ctx context.Context, id string) (*model.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) ListTasks(ctx context.Context, limit, offset int) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) GetTemplate(ctx context.Context, taskID, language string) (string, error) {
	return "", nil
}

func (f *fakeTaskRepo) GetTestCasesByTaskID(ctx context.Context, taskID string) ([]model.TestCase, error) {
	return nil, nil
}

func (f *fakeTaskRepo) GetDifficulties(ctx context.Context, taskIDs []string) (map[string]model.TaskDifficulty, error) {
	return f.difficulties, nil
}
