package stats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/stats"
)

func TestMinRanks_TiesShareMinimumRank(t *testing.T) {
	// two tied at the top both rank 1, next distinct value ranks 3
	ranks := stats.MinRanks([]float64{50, 50, 30, 30, 10})
	assert.Equal(t, []int{1, 1, 3, 3, 5}, ranks)
}

func TestMinRanks_AlignedToInputOrder(t *testing.T) {
	ranks := stats.MinRanks([]float64{10, 30, 20})
	assert.Equal(t, []int{3, 1, 2}, ranks)
}

func TestMinRanks_Empty(t *testing.T) {
	assert.Empty(t, stats.MinRanks(nil))
}

func TestGrowthRate(t *testing.T) {
	g := stats.GrowthRate(10, 15, true)
	require.NotNil(t, g)
	assert.InDelta(t, 0.5, *g, 1e-12)

	assert.Nil(t, stats.GrowthRate(0, 5, true))

	g = stats.GrowthRate(0, 5, false)
	require.NotNil(t, g)
	assert.True(t, math.IsInf(*g, 1))

	g = stats.GrowthRate(0, -5, false)
	require.NotNil(t, g)
	assert.True(t, math.IsInf(*g, -1))

	// negative base: rate uses |a| as denominator
	g = stats.GrowthRate(-10, -5, true)
	require.NotNil(t, g)
	assert.InDelta(t, 0.5, *g, 1e-12)
}

func TestCompare_PerfectPrediction(t *testing.T) {
	m, err := stats.Compare(
		[]interface{}{1.0, 2.0, 3.0},
		[]interface{}{1.0, 2.0, 3.0},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.RMSE)
	assert.Equal(t, 0.0, m.MAE)
	require.NotNil(t, m.MAPE)
	assert.Equal(t, 0.0, *m.MAPE)
}

func TestCompare_LengthMismatch(t *testing.T) {
	_, err := stats.Compare(
		[]interface{}{1.0, 2.0},
		[]interface{}{1.0, 2.0, 3.0},
	)
	assert.ErrorIs(t, err, models.ErrLengthMismatch)
}

func TestCompare_MAPESkipsZeroTruth(t *testing.T) {
	m, err := stats.Compare(
		[]interface{}{0.0, 2.0},
		[]interface{}{1.0, 3.0},
	)
	require.NoError(t, err)
	require.NotNil(t, m.MAPE)
	// only the second pair enters MAPE: |3-2|/2
	assert.InDelta(t, 0.5, *m.MAPE, 1e-12)
}

func TestCompare_MAPENilWhenAllTruthsZero(t *testing.T) {
	m, err := stats.Compare(
		[]interface{}{0.0, 0.0},
		[]interface{}{1.0, 2.0},
	)
	require.NoError(t, err)
	assert.Nil(t, m.MAPE)
	assert.Greater(t, m.RMSE, 0.0)
}

func TestCompare_NullsSkippedEntirely(t *testing.T) {
	m, err := stats.Compare(
		[]interface{}{nil, 2.0},
		[]interface{}{1.0, 2.0},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.MAE)
}

func TestCompare_NoValidPairs(t *testing.T) {
	_, err := stats.Compare(
		[]interface{}{nil, nil},
		[]interface{}{nil, 1.0},
	)
	assert.ErrorIs(t, err, models.ErrNoValidPairs)
}

func TestFlatten_NestedPayloads(t *testing.T) {
	flat, err := stats.Flatten([]interface{}{
		[]interface{}{1.0, []interface{}{2.0, nil}},
		3.0,
	})
	require.NoError(t, err)
	require.Len(t, flat, 4)
	assert.Equal(t, 1.0, *flat[0])
	assert.Equal(t, 2.0, *flat[1])
	assert.Nil(t, flat[2])
	assert.Equal(t, 3.0, *flat[3])
}

func TestFlatten_RejectsNonNumeric(t *testing.T) {
	_, err := stats.Flatten([]interface{}{"oops"})
	assert.Error(t, err)
}
