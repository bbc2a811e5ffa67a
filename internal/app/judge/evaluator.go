package judge

import (
	"context"
	"time"

	"codearena/internal/domain/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Submitter and StatusPoller are the two outbound calls the evaluator makes,
// kept as interfaces so the fan-out logic is testable without a live judge.
type Submitter interface {
	Submit(ctx context.Context, language, source, stdin, expectedOutput string) (string, error)
}

type StatusPoller interface {
	Poll(ctx context.Context, token string) CaseResult
}

// Evaluator runs the full set of test cases of one submission against the
// remote judge. Cases fan out to a bounded pool of workers under a single
// deadline; a broken case yields one failing result, never an aborted batch.
type Evaluator struct {
	submitter Submitter
	poller    StatusPoller
	workers   int
	timeout   time.Duration
	log       *zap.Logger
}

func NewEvaluator(submitter Submitter, poller StatusPoller, workers int, timeout time.Duration, log *zap.Logger) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{
		submitter: submitter,
		poller:    poller,
		workers:   workers,
		timeout:   timeout,
		log:       log,
	}
}

// Evaluate produces exactly one CaseResult per test case, in input order.
// Index i of the returned slice always corresponds to cases[i].
func (e *Evaluator) Evaluate(ctx context.Context, source, language string, cases []model.TestCase) []CaseResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results := make([]CaseResult, len(cases))

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, tc := range cases {
		g.Go(func() error {
			results[i] = e.evaluateCase(ctx, i, source, language, tc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Evaluator) evaluateCase(ctx context.Context, index int, source, language string, tc model.TestCase) CaseResult {
	token, err := e.submitter.Submit(ctx, language, source, tc.Input, tc.ExpectedOutput)
	if err != nil {
		e.log.Warn("test case submission failed",
			zap.Int("case", index),
			zap.Error(err))
		return CaseResult{Index: index, Outcome: OutcomeInfraError, Diagnostic: err.Error()}
	}

	result := e.poller.Poll(ctx, token)
	result.Index = index
	return result
}
