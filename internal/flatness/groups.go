package flatness

import (
	"errors"

	"planitia/internal/model"
)

const (
	SkipNoNeighbors    = "no_neighbors"
	SkipInvalidFitness = "invalid_fitness"
)

// GroupResult is the tagged outcome for one fitness group: either Score is
// set or Skip is.
type GroupResult struct {
	Score *model.FlatnessScore
	Skip  *model.GroupSkip
}

// ScoreGroups partitions records by GroupID, in first-seen order, and
// scores each group with its first record as the reference. Groups that
// cannot be scored come back as skips with a reason; nothing is dropped.
func ScoreGroups(records []model.FitnessRecord) []GroupResult {
	order := make([]string, 0)
	groups := make(map[string][]model.FitnessRecord)
	for _, r := range records {
		if _, ok := groups[r.GroupID]; !ok {
			order = append(order, r.GroupID)
		}
		groups[r.GroupID] = append(groups[r.GroupID], r)
	}

	out := make([]GroupResult, 0, len(order))
	for _, id := range order {
		members := groups[id]
		ref := members[0]
		values := make([]float64, 0, len(members)-1)
		for _, m := range members[1:] {
			values = append(values, m.Fitness)
		}

		score, err := Score(ref.Fitness, values)
		switch {
		case errors.Is(err, ErrEmptyNeighborhood):
			out = append(out, GroupResult{Skip: &model.GroupSkip{GroupID: id, Reason: SkipNoNeighbors}})
		case err != nil:
			out = append(out, GroupResult{Skip: &model.GroupSkip{GroupID: id, Reason: SkipInvalidFitness}})
		default:
			out = append(out, GroupResult{Score: &model.FlatnessScore{
				GroupID:       id,
				Sequence:      ref.Sequence,
				Fitness:       ref.Fitness,
				NeighborCount: len(values),
				Score:         score,
			}})
		}
	}
	return out
}

// Split separates tagged results into scores and skips.
func Split(results []GroupResult) ([]model.FlatnessScore, []model.GroupSkip) {
	scores := make([]model.FlatnessScore, 0, len(results))
	var skips []model.GroupSkip
	for _, r := range results {
		if r.Score != nil {
			scores = append(scores, *r.Score)
			continue
		}
		skips = append(skips, *r.Skip)
	}
	return scores, skips
}
