package models

import (
	"encoding/json"
	"fmt"
)

// GuessResult holds the five digits predicted for a period (top_1..top_5)
type GuessResult struct {
	Top1 int `json:"top_1_number"`
	Top2 int `json:"top_2_number"`
	Top3 int `json:"top_3_number"`
	Top4 int `json:"top_4_number"`
	Top5 int `json:"top_5_number"`
}

// Digits returns the predicted digits in order
func (g *GuessResult) Digits() []int {
	return []int{g.Top1, g.Top2, g.Top3, g.Top4, g.Top5}
}

// String concatenates the five digits, e.g. "12345"
func (g *GuessResult) String() string {
	return fmt.Sprintf("%d%d%d%d%d", g.Top1, g.Top2, g.Top3, g.Top4, g.Top5)
}

// DrawOutcome is an actual draw that happened at or after the predicted period
type DrawOutcome struct {
	PeriodID string `json:"draw_number"` // Period this draw belongs to
	Digits   string `json:"full_number"` // Drawn number, matched as a multiset of digits
	DrawTime int64  `json:"draw_time"`   // Unix seconds
}

// AiTypeParams holds the prompt/model a strategy was run with
type AiTypeParams struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// AiType describes the prediction strategy that produced a record
type AiType struct {
	ID        string       `json:"id"`
	CreatedAt string       `json:"created_at,omitempty"`
	UpdatedAt string       `json:"updated_at,omitempty"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Config    AiTypeParams `json:"config"`
}

// PredictionRecord is a prediction as returned by the guess-list API.
// The records are owned by the backend and are read-only here.
type PredictionRecord struct {
	ID              string        `json:"_id"`
	CreatedAt       string        `json:"created_at,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	Period          string        `json:"guess_period"`
	GuessTime       int64         `json:"guess_time"` // Unix seconds
	PredictedDigits *GuessResult  `json:"guess_result"`
	GuessType       string        `json:"guess_type"`
	DrawOutcomes    []DrawOutcome `json:"ext_result"` // Nearest draw first
	AiType          AiType        `json:"ai_type"`
	DrawStatus      string        `json:"draw_status"`
	RetryCount      int           `json:"retry_count"`
	IsSuccess       bool          `json:"is_success"`
}

// Draw statuses reported by the backend
const (
	DrawStatusCreated   = "created"
	DrawStatusDrawed    = "drawed"
	DrawStatusExecuting = "executing"
	DrawStatusFinished  = "finished"
	DrawStatusFailed    = "failed"
)

// Known guess types (prediction models) served by the guess-list API
const (
	GuessTypeNormal     = "ai_5_normal"
	GuessTypePlus       = "ai_5_plus"
	GuessTypeGemini     = "ai_5_gemini"
	GuessTypeGeminiPlus = "ai_5_gemini_plus"
)

// AllGuessTypes lists every known model in display order
func AllGuessTypes() []string {
	return []string{GuessTypeNormal, GuessTypePlus, GuessTypeGemini, GuessTypeGeminiPlus}
}

// GuessListPage is the data section of a guess-list API response
type GuessListPage struct {
	Records []PredictionRecord `json:"data"`
	Total   int                `json:"total"`
}

// GuessListResponse is the envelope returned by get_ai_guess_list.
// Code is 1 on success; the backend sends it either as a number or a string.
type GuessListResponse struct {
	Code json.Number   `json:"code"`
	Msg  string        `json:"msg"`
	Data GuessListPage `json:"data"`
}

// OK reports whether the backend accepted the request
func (r *GuessListResponse) OK() bool {
	return r.Code.String() == "1"
}
