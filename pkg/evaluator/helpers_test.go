package evaluator

import (
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

const (
	testPrediction = "12345"
	winDigits      = "12000" // 1 present, 2 left after consuming it
	loseDigits     = "00000"
)

func guess(digits string) *models.GuessResult {
	d := make([]int, 5)
	for i := 0; i < 5 && i < len(digits); i++ {
		d[i] = int(digits[i] - '0')
	}
	return &models.GuessResult{Top1: d[0], Top2: d[1], Top3: d[2], Top4: d[3], Top5: d[4]}
}

func draw(period, digits string) models.DrawOutcome {
	return models.DrawOutcome{PeriodID: period, Digits: digits}
}

// drawsFor builds consecutive draws starting at period, one per digits entry
func drawsFor(period string, digits ...string) []models.DrawOutcome {
	draws := make([]models.DrawOutcome, 0, len(digits))
	for i, d := range digits {
		p := period
		if i > 0 {
			p = period + "+" + string(rune('0'+i))
		}
		draws = append(draws, draw(p, d))
	}
	return draws
}

func record(model, period string, guessTime int64, prediction *models.GuessResult, draws ...models.DrawOutcome) models.PredictionRecord {
	return models.PredictionRecord{
		ID:              model + "-" + period,
		Period:          period,
		GuessTime:       guessTime,
		PredictedDigits: prediction,
		GuessType:       model,
		DrawOutcomes:    draws,
		AiType:          models.AiType{Name: model},
		DrawStatus:      models.DrawStatusFinished,
		IsSuccess:       true,
	}
}

func plusAny() Options {
	return Options{Policy: models.FirstDigitPlusAny}
}
