package judge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"codearena/internal/domain/model"

	"go.uber.org/zap"
)

type fakeSubmitter struct {
	mu     sync.Mutex
	calls  int
	failOn map[string]error // keyed by stdin
}

func (f *fakeSubmitter) Submit(ctx context.Context, language, source, stdin, expectedOutput string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failOn[stdin]; ok {
		return "", err
	}
	return fmt.Sprintf("tok-%s", stdin), nil
}

type fakePoller struct {
	results map[string]CaseResult // keyed by token
}

func (f *fakePoller) Poll(ctx context.Context, token string) CaseResult {
	if r, ok := f.results[token]; ok {
		return r
	}
	return CaseResult{Outcome: OutcomeOK, MemoryKb: 1, TimeMs: 1}
}

func testCases(n int) []model.TestCase {
	cases := make([]model.TestCase, n)
	for i := range cases {
		cases[i] = model.TestCase{
			Input:          fmt.Sprintf("in-%d", i),
			ExpectedOutput: fmt.Sprintf("out-%d", i),
			SortOrder:      i,
		}
	}
	return cases
}

func TestEvaluateOneResultPerCaseInOrder(t *testing.T) {
	t.Parallel()
	submitter := &fakeSubmitter{}
	poller := &fakePoller{results: map[string]CaseResult{
		"tok-in-1": {Outcome: OutcomeWrongAnswer, Diagnostic: "Wrong Answer"},
	}}
	e := NewEvaluator(submitter, poller, 3, time.Minute, zap.NewNop())

	results := e.Evaluate(context.Background(), "src", "cpp", testCases(5))
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
	if results[1].Outcome != OutcomeWrongAnswer {
		t.Fatalf("expected case 1 to fail, got %s", results[1].Outcome)
	}
	if results[0].Outcome != OutcomeOK || results[4].Outcome != OutcomeOK {
		t.Fatal("expected other cases to pass")
	}
}

// A submit failure on one case becomes an infra-error result for that case
// only; every other case still runs.
func TestEvaluateIsolatesSubmitFailures(t *testing.T) {
	t.Parallel()
	submitter := &fakeSubmitter{failOn: map[string]error{
		"in-2": errors.New("judge rejected submission: quota"),
	}}
	e := NewEvaluator(submitter, &fakePoller{}, 2, time.Minute, zap.NewNop())

	results := e.Evaluate(context.Background(), "src", "rust", testCases(4))
	if results[2].Outcome != OutcomeInfraError {
		t.Fatalf("expected infra-error for case 2, got %s", results[2].Outcome)
	}
	if results[2].Diagnostic == "" {
		t.Fatal("expected a diagnostic on the failed case")
	}
	for _, i := range []int{0, 1, 3} {
		if results[i].Outcome != OutcomeOK {
			t.Fatalf("case %d should be unaffected, got %s", i, results[i].Outcome)
		}
	}
	if submitter.calls != 4 {
		t.Fatalf("expected all 4 cases submitted, got %d", submitter.calls)
	}
}

func TestEvaluateSingleWorkerFloor(t *testing.T) {
	t.Parallel()
	e := NewEvaluator(&fakeSubmitter{}, &fakePoller{}, 0, time.Minute, zap.NewNop())
	results := e.Evaluate(context.Background(), "src", "java", testCases(2))
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
