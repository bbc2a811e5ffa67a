package worker

import (
	"context"
	"errors"
	"time"

	"codearena/internal/platform/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionEvaluator is what the worker needs from the evaluation pipeline.
type SubmissionEvaluator interface {
	EvaluateSubmission(ctx context.Context, submissionID string) error
}

// EvaluationWorker consumes submission ids from the Redis evaluation queue
// and drives each through the judging pipeline. One worker processes its
// submissions sequentially; the pipeline itself fans test cases out to a
// bounded pool, and multiple worker processes can run side by side since the
// score mutation is an atomic database increment.
type EvaluationWorker struct {
	rdb       *redis.Client
	evaluator SubmissionEvaluator
	queueName string
	log       *zap.Logger
}

func NewEvaluationWorker(rdb *redis.Client, evaluator SubmissionEvaluator, log *zap.Logger) *EvaluationWorker {
	return &EvaluationWorker{
		rdb:       rdb,
		evaluator: evaluator,
		queueName: config.AppConfig.EvaluationQueueName,
		log:       log,
	}
}

func (w *EvaluationWorker) Start(ctx context.Context) {
	w.log.Info("evaluation worker started", zap.String("queue", w.queueName))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("evaluation worker stopping")
			return
		default:
		}

		// Bounded block so shutdown is noticed within a few seconds.
		popped, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue empty
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue // shutting down, the select above exits
			}
			w.log.Error("queue pop failed", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		if len(popped) < 2 || popped[1] == "" {
			w.log.Warn("queue pop returned empty submission id")
			continue
		}
		submissionID := popped[1]

		w.log.Info("picked up submission", zap.String("submission_id", submissionID))
		if err := w.evaluator.EvaluateSubmission(ctx, submissionID); err != nil {
			// The pipeline absorbs per-case failures itself; an error here
			// means the submission could not be loaded or persisted at all.
			w.log.Error("submission evaluation failed",
				zap.String("submission_id", submissionID),
				zap.Error(err))
		}
	}
}
