// Package scoring converts verdicts and resource metrics into contest score
// contributions under two independent policies: a fixed live award per
// accepted submission, and a resource-based recompute once a contest ends.
package scoring

import (
	"math"

	"codearena/internal/domain/model"
)

// Fixed points awarded live, the moment a submission is accepted inside an
// active contest window.
var liveAwards = map[model.TaskDifficulty]float64{
	model.DifficultyEasy:   100,
	model.DifficultyMedium: 200,
	model.DifficultyHard:   300,
}

// Per-tier numeric budget for the resource-based formula. Harder tasks get a
// higher baseline before the resource penalty dominates.
var difficultyConstants = map[model.TaskDifficulty]float64{
	model.DifficultyEasy:   1_000_000,
	model.DifficultyMedium: 2_000_000,
	model.DifficultyHard:   3_000_000,
}

// LiveAward returns the fixed in-contest award for a difficulty tier.
func LiveAward(difficulty model.TaskDifficulty) float64 {
	return liveAwards[difficulty]
}

// Contribution is the efficiency score of one accepted submission:
//
//	log10(C) - log10(sqrt(time_ms * memory_kb))
//
// Logarithmic so that small speed differences near the limit matter less
// than large ones. Monotonically non-increasing in time*memory for a fixed
// difficulty. A zero resource product is floored at 1 to keep the term
// finite.
func Contribution(difficulty model.TaskDifficulty, timeMs, memoryKb int) float64 {
	product := float64(timeMs) * float64(memoryKb)
	if product < 1 {
		product = 1
	}
	return math.Log10(difficultyConstants[difficulty]) - math.Log10(math.Sqrt(product))
}

// Recompute sums efficiency contributions over a participant's accepted
// contest submissions, deduplicated to the most recent submission per task.
// The total is clamped at zero: a pathological resource product exceeding
// the difficulty budget must never produce a negative score.
func Recompute(accepted []model.Submission, difficulties map[string]model.TaskDifficulty) float64 {
	best := make(map[string]model.Submission, len(accepted))
	for _, sub := range accepted {
		cur, ok := best[sub.TaskID]
		if !ok || sub.CreatedAt.After(cur.CreatedAt) {
			best[sub.TaskID] = sub
		}
	}

	total := 0.0
	for taskID, sub := range best {
		difficulty, ok := difficulties[taskID]
		if !ok {
			continue
		}
		total += Contribution(difficulty, sub.TimeMs, sub.MemoryKb)
	}

	if total < 0 {
		return 0
	}
	return total
}
