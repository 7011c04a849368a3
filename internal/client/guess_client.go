package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

const (
	// GuessListPath is the endpoint serving prediction records
	GuessListPath = "/client/lot/get_ai_guess_list"

	defaultRateLimit = 4.0 // requests per second
	defaultBurst     = 4
	defaultPageSize  = 50
)

// ErrAPI is returned when the backend answers with a non-success code
var ErrAPI = errors.New("guess list api error")

// RequestRecorder receives the outcome of every API request
type RequestRecorder interface {
	RecordAPIRequest(status string)
}

// GuessListQuery selects a page of predictions. Zero times are omitted.
type GuessListQuery struct {
	GuessType string
	Page      int
	PageSize  int
	StartTime time.Time
	EndTime   time.Time
}

// GuessClient reads prediction records from the guess-list API. Requests
// are rate limited and never retried.
type GuessClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	recorder   RequestRecorder
	logger     zerolog.Logger
}

// Option configures the client
type Option func(*GuessClient)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *GuessClient) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom rate limiting
func WithRateLimit(rps float64, burst int) Option {
	return func(c *GuessClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPageSize sets the page size used when a query leaves it unset
func WithPageSize(size int) Option {
	return func(c *GuessClient) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithRecorder reports request outcomes to r
func WithRecorder(r RequestRecorder) Option {
	return func(c *GuessClient) {
		c.recorder = r
	}
}

// NewGuessClient creates a new guess-list API client
func NewGuessClient(baseURL string, logger zerolog.Logger, opts ...Option) *GuessClient {
	c := &GuessClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		pageSize: defaultPageSize,
		logger:   logger.With().Str("component", "guess_client").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchGuessList fetches one page of prediction records, newest first
func (c *GuessClient) FetchGuessList(ctx context.Context, query GuessListQuery) (*models.GuessListPage, error) {
	if query.GuessType == "" {
		return nil, fmt.Errorf("guess type is required")
	}

	params := url.Values{}
	params.Set("guess_type", query.GuessType)
	params.Set("page", strconv.Itoa(max(query.Page, 1)))
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	params.Set("page_size", strconv.Itoa(pageSize))
	if !query.StartTime.IsZero() && !query.EndTime.IsZero() {
		params.Set("start_time", strconv.FormatInt(query.StartTime.Unix(), 10))
		params.Set("end_time", strconv.FormatInt(query.EndTime.Unix(), 10))
	}

	var resp models.GuessListResponse
	if err := c.get(ctx, GuessListPath, params, &resp); err != nil {
		c.record("error")
		return nil, err
	}

	if !resp.OK() {
		c.record("rejected")
		return nil, fmt.Errorf("%w: code %s: %s", ErrAPI, resp.Code.String(), resp.Msg)
	}

	c.record("success")
	c.logger.Debug().
		Str("guess_type", query.GuessType).
		Int("records", len(resp.Data.Records)).
		Int("total", resp.Data.Total).
		Msg("fetched guess list")

	return &resp.Data, nil
}

// FetchRecent fetches the latest limit records of guessType
func (c *GuessClient) FetchRecent(ctx context.Context, guessType string, limit int) ([]models.PredictionRecord, error) {
	page, err := c.FetchGuessList(ctx, GuessListQuery{GuessType: guessType, Page: 1, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

func (c *GuessClient) record(status string) {
	if c.recorder != nil {
		c.recorder.RecordAPIRequest(status)
	}
}

func (c *GuessClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
