package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ContestRepository interface {
	CreateContest(ctx context.Context, contest *model.Contest) error
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)
	ListContests(ctx context.Context, limit, offset int) ([]model.Contest, error)
	// MarkScoresProcessed flips the contest's scores_processed flag from
	// false to true. It reports common.ErrAlreadyScored when the flag was
	// already set, which makes finalization idempotent.
	MarkScoresProcessed(ctx context.Context, tx *sql.Tx, contestID string) error
	// IncrementScore adds delta to the participant's cumulative contest
	// score as a single database-level increment, never a read-modify-write.
	IncrementScore(ctx context.Context, tx *sql.Tx, contestID, userID string, delta float64) error
	GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateContest(ctx context.Context, contest *model.Contest) error {
	query := `INSERT INTO contests (id, title, slug, starts_at, ends_at, scores_processed)
	          VALUES ($1, $2, $3, $4, $5, false)`
	_, err := r.db.ExecContext(ctx, query,
		contest.ID, contest.Title, contest.Slug, contest.StartsAt, contest.EndsAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("contest with given slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.CreateContest: %w", err)
	}
	return nil
}

func (r *pgContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT id, title, slug, starts_at, ends_at, scores_processed, created_at
	          FROM contests WHERE id = $1`
	contest := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contest.ID, &contest.Title, &contest.Slug,
		&contest.StartsAt, &contest.EndsAt, &contest.ScoresProcessed, &contest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindContestByID: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) ListContests(ctx context.Context, limit, offset int) ([]model.Contest, error) {
	query := `SELECT id, title, slug, starts_at, ends_at, scores_processed, created_at
	          FROM contests ORDER BY starts_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListContests: %w", err)
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		var contest model.Contest
		if err := rows.Scan(
			&contest.ID, &contest.Title, &contest.Slug,
			&contest.StartsAt, &contest.EndsAt, &contest.ScoresProcessed, &contest.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListContests scan: %w", err)
		}
		contests = append(contests, contest)
	}
	return contests, rows.Err()
}

func (r *pgContestRepository) MarkScoresProcessed(ctx context.Context, tx *sql.Tx, contestID string) error {
	query := `UPDATE contests SET scores_processed = true
	          WHERE id = $1 AND scores_processed = false`
	res, err := tx.ExecContext(ctx, query, contestID)
	if err != nil {
		return fmt.Errorf("pgContestRepository.MarkScoresProcessed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgContestRepository.MarkScoresProcessed: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyScored
	}
	return nil
}

func (r *pgContestRepository) IncrementScore(ctx context.Context, tx *sql.Tx, contestID, userID string, delta float64) error {
	query := `INSERT INTO participant_scores (contest_id, user_id, score, updated_at)
	          VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
	          ON CONFLICT (contest_id, user_id)
	          DO UPDATE SET score = participant_scores.score + EXCLUDED.score, updated_at = CURRENT_TIMESTAMP`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, contestID, userID, delta)
	} else {
		_, err = r.db.ExecContext(ctx, query, contestID, userID, delta)
	}
	if err != nil {
		return fmt.Errorf("pgContestRepository.IncrementScore: %w", err)
	}
	return nil
}

func (r *pgContestRepository) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT ps.user_id, u.username, ps.score
	          FROM participant_scores ps
	          JOIN users u ON u.id = ps.user_id
	          WHERE ps.contest_id = $1
	          ORDER BY ps.score DESC, ps.updated_at ASC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, contestID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.GetLeaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Score); err != nil {
			return nil, fmt.Errorf("pgContestRepository.GetLeaderboard scan: %w", err)
		}
		rank++
		entry.Rank = rank
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
