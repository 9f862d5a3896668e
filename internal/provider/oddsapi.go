// Package provider holds clients for external data feeds.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ── Odds API feed types ──

// Event is one game in the odds feed, with bookmaker → market → outcome
// nesting.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// ScoreEvent is one game in the scores feed.
type ScoreEvent struct {
	ID        string       `json:"id"`
	SportKey  string       `json:"sport_key"`
	Completed bool         `json:"completed"`
	HomeTeam  string       `json:"home_team"`
	AwayTeam  string       `json:"away_team"`
	Scores    []EventScore `json:"scores"`
}

type EventScore struct {
	Name  string     `json:"name"`
	Score ScoreValue `json:"score"`
}

// ScoreValue tolerates the feed quoting scores as either numbers or
// strings.
type ScoreValue int

func (v *ScoreValue) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse score %q: %w", s, err)
	}
	*v = ScoreValue(n)
	return nil
}

// ── Fetch error ──

// FetchError describes a failed call to The Odds API. StatusCode is 0
// when the request never reached the provider.
type FetchError struct {
	SportKey   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("odds api fetch for %s returned %d: %v", e.SportKey, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("odds api fetch for %s failed: %v", e.SportKey, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ── OddsAPIClient ──

// OddsAPIClient talks to The Odds API v4. It is read-only: odds and
// scores come out, nothing goes in.
type OddsAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewOddsAPIClient creates an Odds API client. An empty baseURL selects
// the production endpoint.
func NewOddsAPIClient(baseURL, apiKey string, logger *slog.Logger) *OddsAPIClient {
	if baseURL == "" {
		baseURL = "https://api.the-odds-api.com"
	}
	return &OddsAPIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// FetchOdds returns the upcoming games and American-format prices for a
// sport across the h2h, spreads, and totals markets.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, sportKey string) ([]Event, error) {
	path := fmt.Sprintf("/v4/sports/%s/odds/?regions=us&markets=h2h,spreads,totals&oddsFormat=american&dateFormat=iso", sportKey)
	body, err := c.get(ctx, sportKey, path)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode odds feed for %s: %w", sportKey, err)
	}
	return events, nil
}

// FetchScores returns final and in-progress scores for games that
// started up to daysFrom days ago.
func (c *OddsAPIClient) FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]ScoreEvent, error) {
	path := fmt.Sprintf("/v4/sports/%s/scores/?daysFrom=%d&dateFormat=iso", sportKey, daysFrom)
	body, err := c.get(ctx, sportKey, path)
	if err != nil {
		return nil, err
	}

	var events []ScoreEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode scores feed for %s: %w", sportKey, err)
	}
	return events, nil
}

func (c *OddsAPIClient) get(ctx context.Context, sportKey, path string) ([]byte, error) {
	url := c.baseURL + path
	if strings.Contains(path, "?") {
		url += "&apiKey=" + c.apiKey
	} else {
		url += "?apiKey=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{SportKey: sportKey, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{SportKey: sportKey, Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	remaining := resp.Header.Get("x-requests-remaining")
	c.logger.Debug("odds api request", "path", path, "status", resp.StatusCode, "remaining", remaining)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{SportKey: sportKey, StatusCode: resp.StatusCode, Err: fmt.Errorf("quota exceeded")}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			SportKey:   sportKey,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", body[:min(200, len(body))]),
		}
	}

	return body, nil
}
