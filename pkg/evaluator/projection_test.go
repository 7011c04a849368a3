package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// TestProjectBalance tests the balance projection formula
func TestProjectBalance(t *testing.T) {
	tests := []struct {
		name     string
		outcomes string
		stake    models.StakeConfig
		counts   [4]int
		balance  string
	}{
		{"one of each", "1230", models.DefaultStakeConfig(), [4]int{1, 1, 1, 1}, "39.6"},
		{"separators ignored", "1, 1 - 0 x", models.DefaultStakeConfig(), [4]int{2, 0, 0, 1}, "-128.7"},
		{"empty", "", models.DefaultStakeConfig(), [4]int{}, "0"},
		{"flat stake", "333", models.StakeConfig{First: 1, Second: 1, Third: 1}, [4]int{0, 0, 3, 0}, "-29.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProjectBalance(tt.outcomes, tt.stake)

			assert.Equal(t, tt.counts[0], p.WonFirst)
			assert.Equal(t, tt.counts[1], p.WonSecond)
			assert.Equal(t, tt.counts[2], p.WonThird)
			assert.Equal(t, tt.counts[3], p.Lost)
			assert.Equal(t, tt.balance, p.Balance.String())
		})
	}
}

// TestOutcomeCodes tests encoding resolved records as projection codes
func TestOutcomeCodes(t *testing.T) {
	records := []models.PredictionRecord{
		record("a", "P4", 4, guess(testPrediction), drawsFor("P4", loseDigits, loseDigits, loseDigits)...),
		record("a", "P1", 1, guess(testPrediction), drawsFor("P1", winDigits, loseDigits, loseDigits)...),
		record("a", "P2", 2, guess(testPrediction), drawsFor("P2", loseDigits, winDigits, loseDigits)...),
		record("a", "P3", 3, guess(testPrediction), drawsFor("P3", loseDigits, loseDigits, winDigits)...),
		record("a", "P5", 5, nil, drawsFor("P5", winDigits, winDigits, winDigits)...),
		record("a", "P6", 6, guess(testPrediction), drawsFor("P6", winDigits)...),
	}

	codes := OutcomeCodes(records, models.FirstDigitPlusAny)
	assert.Equal(t, "1230", codes)

	// projecting the codes agrees with the balance simulation
	projected := ProjectBalance(codes, models.DefaultStakeConfig())
	total := TotalBalance(records, models.DefaultStakeConfig(), models.WindowThree, plusAny())
	assert.Equal(t, int(projected.Balance.Floor().IntPart()), total)
}
