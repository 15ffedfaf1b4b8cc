// Package flatness scores how robust a sequence's fitness is to single
// mutations.
//
// The score is the mean rectified fitness drop over a neighborhood: every
// neighbor that is less fit than the reference contributes the size of the
// drop, every neighbor at least as fit contributes zero, and the sum is
// divided by the full neighbor count. Lower scores mean a flatter, more
// robust local landscape.
package flatness

import (
	"fmt"
	"math"

	"planitia/internal/model"
)

var ErrEmptyNeighborhood = fmt.Errorf("%w: no neighbor fitness values", model.ErrInvalidArgument)

// Score returns the mean rectified drop from fitness to each neighbor value.
func Score(fitness float64, neighborFitnesses []float64) (float64, error) {
	if len(neighborFitnesses) == 0 {
		return 0, ErrEmptyNeighborhood
	}
	if math.IsNaN(fitness) {
		return 0, fmt.Errorf("%w: reference fitness is NaN", model.ErrInvalidArgument)
	}
	total := 0.0
	for i, v := range neighborFitnesses {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("%w: neighbor %d fitness is NaN", model.ErrInvalidArgument, i)
		}
		if drop := fitness - v; drop > 0 {
			total += drop
		}
	}
	return total / float64(len(neighborFitnesses)), nil
}
