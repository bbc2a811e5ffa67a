// Package judge drives submissions through a remote Judge0-compatible
// execution service: submit one unit per test case, poll each token until a
// terminal state, then reduce the per-case results into a single verdict.
package judge

import (
	"codearena/internal/domain/model"
)

// Outcome is the terminal classification of one test-case execution.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeWrongAnswer  Outcome = "wrong-answer"
	OutcomeTimeLimit    Outcome = "time-limit"
	OutcomeCompileError Outcome = "compile-error"
	OutcomeInfraError   Outcome = "infra-error"
	OutcomeTimeout      Outcome = "timeout-waiting"
	OutcomeUnknown      Outcome = "unknown"
)

// CaseResult is the transient result of one test-case execution. MemoryKb and
// TimeMs carry data only when Outcome is OutcomeOK; Diagnostic only when it
// is not.
type CaseResult struct {
	Index      int
	Outcome    Outcome
	MemoryKb   int
	TimeMs     int
	Diagnostic string
}

// Verdict is the submission-level reduction of all case results.
type Verdict struct {
	Status     model.SubmissionStatus
	Passed     int
	Total      int
	MemoryKb   int
	TimeMs     int
	Message    string
	Diagnostic string
}
