package flatness

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"planitia/internal/model"
)

func TestScoreRectifiesAndAveragesOverAllNeighbors(t *testing.T) {
	got, err := Score(5.0, []float64{3.0, 7.0, 4.0})
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-12)
}

func TestScoreSymmetricPair(t *testing.T) {
	for _, f := range []float64{-3, 0, 2.5, 100} {
		got, err := Score(f, []float64{f - 1, f + 1})
		require.NoError(t, err)
		require.InDelta(t, 0.5, got, 1e-12)
	}
}

func TestScoreEqualNeighborContributesZero(t *testing.T) {
	got, err := Score(1.25, []float64{1.25})
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestScoreRejectsEmptyNeighborhood(t *testing.T) {
	_, err := Score(10.0, nil)
	require.ErrorIs(t, err, ErrEmptyNeighborhood)
	require.True(t, errors.Is(err, model.ErrInvalidArgument))

	_, err = Score(10.0, []float64{})
	require.ErrorIs(t, err, ErrEmptyNeighborhood)
}

func TestScoreRejectsNaN(t *testing.T) {
	_, err := Score(math.NaN(), []float64{1})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = Score(1, []float64{0, math.NaN()})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestScoreGroupsKeepsOrderAndTagsSkips(t *testing.T) {
	records := []model.FitnessRecord{
		{GroupID: "g1", Sequence: "AC", Fitness: 5},
		{GroupID: "g2", Sequence: "TT", Fitness: 1},
		{GroupID: "g1", Fitness: 3},
		{GroupID: "g1", Fitness: 7},
		{GroupID: "g1", Fitness: 4},
		{GroupID: "g3", Fitness: 2},
		{GroupID: "g3", Fitness: math.NaN()},
	}
	results := ScoreGroups(records)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].Score)
	require.Equal(t, "g1", results[0].Score.GroupID)
	require.Equal(t, "AC", results[0].Score.Sequence)
	require.Equal(t, 3, results[0].Score.NeighborCount)
	require.InDelta(t, 1.0, results[0].Score.Score, 1e-12)

	require.Nil(t, results[1].Score)
	require.Equal(t, model.GroupSkip{GroupID: "g2", Reason: SkipNoNeighbors}, *results[1].Skip)
	require.Equal(t, model.GroupSkip{GroupID: "g3", Reason: SkipInvalidFitness}, *results[2].Skip)

	scores, skips := Split(results)
	require.Len(t, scores, 1)
	require.Len(t, skips, 2)
}

func TestCurveInterpolatesAndClamps(t *testing.T) {
	c, err := NewCurve([]float64{0, 1, 3}, []float64{0, 10, 30})
	require.NoError(t, err)
	require.InDelta(t, 5.0, c.At(0.5), 1e-12)
	require.InDelta(t, 20.0, c.At(2), 1e-12)
	require.InDelta(t, 0.0, c.At(-4), 1e-12)
	require.InDelta(t, 30.0, c.At(9), 1e-12)
	require.InDelta(t, 10.0, c.At(1), 1e-12)
	require.Equal(t, []float64{0, 5, 30}, c.Map([]float64{0, 0.5, 3}))
}

func TestNewCurveValidates(t *testing.T) {
	_, err := NewCurve(nil, nil)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = NewCurve([]float64{0, 1}, []float64{1})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = NewCurve([]float64{1, 0}, []float64{1, 2})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestZeroCurvePassesValuesThrough(t *testing.T) {
	var c Curve
	require.Zero(t, c.Len())
	require.NotPanics(t, func() {
		require.Equal(t, 1.5, c.At(1.5))
	})
	require.Equal(t, []float64{-2, 7}, c.Map([]float64{-2, 7}))
}
