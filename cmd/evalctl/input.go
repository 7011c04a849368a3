package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// readRecords accepts a JSON array of records or a guess-list API response
func readRecords(path string) ([]models.PredictionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []models.PredictionRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		return records, nil
	}

	var resp models.GuessListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode guess list response: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("guess list response has code %s: %s", resp.Code.String(), resp.Msg)
	}
	return resp.Data.Records, nil
}

// readSettingsFile reads a flat JSON object of stored settings. Non-string
// values are kept in their JSON form, e.g. the stake object.
func readSettingsFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, err := strconv.Unquote(string(v)); err == nil {
			values[k] = s
			continue
		}
		values[k] = string(v)
	}
	return values, nil
}
