package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

func statsRecords() []models.PredictionRecord {
	return []models.PredictionRecord{
		record("a", "P3", 3, guess(testPrediction), drawsFor("P3", loseDigits)...),
		record("a", "P1", 1, guess(testPrediction), drawsFor("P1", winDigits, loseDigits, loseDigits)...),
		record("a", "P4", 4, nil, drawsFor("P4", winDigits, winDigits, winDigits)...),
		record("a", "P2", 2, guess(testPrediction), drawsFor("P2", loseDigits, winDigits, loseDigits)...),
	}
}

// TestComputeWinRates tests window-specific win rates
func TestComputeWinRates(t *testing.T) {
	rates := ComputeWinRates(statsRecords(), models.FirstDigitPlusAny)

	assert.Equal(t, models.WinRate{Rate: 33.33, Total: 3, Wins: 1}, rates.Current)
	assert.Equal(t, models.WinRate{Rate: 100, Total: 2, Wins: 2}, rates.Two)
	assert.Equal(t, models.WinRate{Rate: 100, Total: 2, Wins: 2}, rates.Three)
	assert.Equal(t, rates.Two, rates.ForWindow(models.WindowTwo))
}

// TestComputeWinRates_Empty tests win rates without records
func TestComputeWinRates_Empty(t *testing.T) {
	rates := ComputeWinRates(nil, models.FirstDigitPlusAny)
	assert.Equal(t, models.WinRates{}, rates)
}

// TestWinRateSeries tests the cumulative win rate
func TestWinRateSeries(t *testing.T) {
	series := WinRateSeries(statsRecords(), models.WindowCurrent, models.FirstDigitPlusAny)
	require.Len(t, series, 4)

	want := []float64{100, 50, 33.33, 33.33}
	for i, point := range series {
		assert.Equal(t, int64(i+1), point.GuessTime)
		assert.InDelta(t, want[i], point.WinRate, 0.001)
	}
}

// TestWinLoseSeries tests the per-record outcome markers
func TestWinLoseSeries(t *testing.T) {
	series := WinLoseSeries(statsRecords(), models.WindowThree, models.FirstDigitPlusAny)
	require.Len(t, series, 4)

	got := make([]int, 0, len(series))
	for _, point := range series {
		got = append(got, point.Value)
	}
	assert.Equal(t, []int{1, 1, -1, -1}, got)
}
