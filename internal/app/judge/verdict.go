package judge

import (
	"fmt"

	"codearena/internal/domain/model"
)

// Aggregate reduces per-case results into one submission-level verdict. Pure
// function, no side effects.
//
// Resource totals sum over passing cases only; a failing case contributes
// nothing, even partially. The diagnostic of the lowest-index failing case is
// the submission's representative error. A compilation failure or CPU-time
// excess anywhere in the batch escalates the status to Error; any other
// failure leaves it at Rejected.
func Aggregate(results []CaseResult) Verdict {
	v := Verdict{Total: len(results)}

	fatal := false
	diagFound := false
	for _, r := range results {
		if r.Outcome == OutcomeOK {
			v.Passed++
			v.MemoryKb += r.MemoryKb
			v.TimeMs += r.TimeMs
			continue
		}
		if !diagFound {
			v.Diagnostic = r.Diagnostic
			diagFound = true
		}
		if r.Outcome == OutcomeCompileError || r.Outcome == OutcomeTimeLimit {
			fatal = true
		}
	}

	switch {
	case v.Passed == v.Total:
		v.Status = model.StatusAccepted
		v.Message = "All tests passed"
	case fatal:
		v.Status = model.StatusError
		v.Message = fmt.Sprintf("Passed tests: %d of %d", v.Passed, v.Total)
	default:
		v.Status = model.StatusRejected
		v.Message = fmt.Sprintf("Passed tests: %d of %d", v.Passed, v.Total)
	}

	return v
}
