package judge

import (
	"testing"

	"codearena/internal/domain/model"
)

func TestAggregateAllPassed(t *testing.T) {
	t.Parallel()
	results := []CaseResult{
		{Index: 0, Outcome: OutcomeOK, MemoryKb: 50, TimeMs: 100},
		{Index: 1, Outcome: OutcomeOK, MemoryKb: 70, TimeMs: 120},
		{Index: 2, Outcome: OutcomeOK, MemoryKb: 30, TimeMs: 80},
	}

	v := Aggregate(results)
	if v.Status != model.StatusAccepted {
		t.Fatalf("expected Accepted, got %s", v.Status)
	}
	if v.Passed != 3 || v.Total != 3 {
		t.Fatalf("expected 3/3, got %d/%d", v.Passed, v.Total)
	}
	if v.MemoryKb != 150 || v.TimeMs != 300 {
		t.Fatalf("expected summed resources 150/300, got %d/%d", v.MemoryKb, v.TimeMs)
	}
	if v.Message != "All tests passed" {
		t.Fatalf("unexpected message %q", v.Message)
	}
	if v.Diagnostic != "" {
		t.Fatalf("expected no diagnostic, got %q", v.Diagnostic)
	}
}

func TestAggregateRejected(t *testing.T) {
	t.Parallel()
	results := []CaseResult{
		{Index: 0, Outcome: OutcomeOK, MemoryKb: 50, TimeMs: 100},
		{Index: 1, Outcome: OutcomeWrongAnswer, Diagnostic: "Wrong Answer"},
		{Index: 2, Outcome: OutcomeOK, MemoryKb: 20, TimeMs: 40},
	}

	v := Aggregate(results)
	if v.Status != model.StatusRejected {
		t.Fatalf("expected Rejected, got %s", v.Status)
	}
	if v.Passed != 2 || v.Total != 3 {
		t.Fatalf("expected 2/3, got %d/%d", v.Passed, v.Total)
	}
	if v.Message != "Passed tests: 2 of 3" {
		t.Fatalf("unexpected message %q", v.Message)
	}
	if v.Diagnostic != "Wrong Answer" {
		t.Fatalf("expected wrong-answer diagnostic, got %q", v.Diagnostic)
	}
}

// A failing case must contribute nothing to resource totals, even partially.
func TestAggregateExcludesFailedCaseMetrics(t *testing.T) {
	t.Parallel()
	results := []CaseResult{
		{Index: 0, Outcome: OutcomeOK, MemoryKb: 50, TimeMs: 100},
		{Index: 1, Outcome: OutcomeWrongAnswer, MemoryKb: 999, TimeMs: 999, Diagnostic: "Wrong Answer"},
	}

	v := Aggregate(results)
	if v.TimeMs != 100 || v.MemoryKb != 50 {
		t.Fatalf("expected exactly 100ms/50kb from the ok case, got %dms/%dkb", v.TimeMs, v.MemoryKb)
	}
}

func TestAggregateFatalEscalation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		results []CaseResult
		want    model.SubmissionStatus
	}{
		{
			name: "compile error anywhere escalates",
			results: []CaseResult{
				{Index: 0, Outcome: OutcomeOK, MemoryKb: 10, TimeMs: 10},
				{Index: 1, Outcome: OutcomeCompileError, Diagnostic: "Compilation Error"},
			},
			want: model.StatusError,
		},
		{
			name: "time limit anywhere escalates",
			results: []CaseResult{
				{Index: 0, Outcome: OutcomeTimeLimit, Diagnostic: "Time Limit Exceeded"},
				{Index: 1, Outcome: OutcomeOK, MemoryKb: 10, TimeMs: 10},
			},
			want: model.StatusError,
		},
		{
			name: "infra error stays rejected",
			results: []CaseResult{
				{Index: 0, Outcome: OutcomeInfraError, Diagnostic: "submit to judge: connection refused"},
				{Index: 1, Outcome: OutcomeOK, MemoryKb: 10, TimeMs: 10},
			},
			want: model.StatusRejected,
		},
		{
			name: "timeout stays rejected",
			results: []CaseResult{
				{Index: 0, Outcome: OutcomeTimeout, Diagnostic: "exceeded wait time"},
			},
			want: model.StatusRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Aggregate(tt.results).Status; got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// The lowest-index failing case supplies the representative diagnostic.
func TestAggregateFirstDiagnosticWins(t *testing.T) {
	t.Parallel()
	results := []CaseResult{
		{Index: 0, Outcome: OutcomeOK, MemoryKb: 10, TimeMs: 10},
		{Index: 1, Outcome: OutcomeWrongAnswer, Diagnostic: "first failure"},
		{Index: 2, Outcome: OutcomeCompileError, Diagnostic: "second failure"},
	}

	v := Aggregate(results)
	if v.Diagnostic != "first failure" {
		t.Fatalf("expected first diagnostic, got %q", v.Diagnostic)
	}
	// The later compile error still escalates the status.
	if v.Status != model.StatusError {
		t.Fatalf("expected Error, got %s", v.Status)
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	v := Aggregate(nil)
	if v.Status != model.StatusAccepted || v.Total != 0 {
		t.Fatalf("expected vacuous acceptance, got %s %d", v.Status, v.Total)
	}
}
