package rostersim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/cohort"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// do performs a request with a JSON body (nil for none) and decodes the
// JSON response into out (nil to discard).
func (c *HTTPClient) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned status %d: %s", method, url, resp.StatusCode, string(payload))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Wire shapes for engine endpoints. They mirror the handler payloads so a
// simulation run doubles as a contract check.
type drillsRequest struct {
	Drills []model.Drill `json:"drills"`
}

type rosterRequest struct {
	Players []model.Player `json:"players"`
}

type rankingsRequest struct {
	AgeGroup string          `json:"age_group"`
	Weights  model.WeightMap `json:"weights,omitempty"`
}

type rankingsResponse struct {
	Entries []ranking.Entry `json:"entries"`
}

type drillRankingsResponse struct {
	Entries []ranking.DrillEntry `json:"entries"`
}

type teamsRequest struct {
	AgeGroup  string          `json:"age_group"`
	Weights   model.WeightMap `json:"weights,omitempty"`
	TeamCount *int            `json:"team_count"`
	Strategy  string          `json:"strategy"`
}

func (c *HTTPClient) putDrills(ctx context.Context, baseURL string, drills []model.Drill) error {
	return c.do(ctx, http.MethodPut, baseURL+"/drills", drillsRequest{Drills: drills}, nil)
}

func (c *HTTPClient) putRoster(ctx context.Context, baseURL string, players []model.Player) error {
	return c.do(ctx, http.MethodPut, baseURL+"/roster", rosterRequest{Players: players}, nil)
}

func (c *HTTPClient) postRankings(ctx context.Context, baseURL, ageGroup string) ([]ranking.Entry, error) {
	var resp rankingsResponse
	if err := c.do(ctx, http.MethodPost, baseURL+"/rankings", rankingsRequest{AgeGroup: ageGroup}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *HTTPClient) getDrillRankings(ctx context.Context, baseURL, ageGroup, drillKey string) ([]ranking.DrillEntry, error) {
	var resp drillRankingsResponse
	url := baseURL + "/rankings/drill?drill=" + drillKey
	if ageGroup != "" {
		url += "&age_group=" + ageGroup
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *HTTPClient) postTeams(ctx context.Context, baseURL, ageGroup, strategy string, teamCount int) (balancing.Result, error) {
	var result balancing.Result
	req := teamsRequest{AgeGroup: ageGroup, TeamCount: &teamCount, Strategy: strategy}
	if err := c.do(ctx, http.MethodPost, baseURL+"/teams", req, &result); err != nil {
		return balancing.Result{}, err
	}
	return result, nil
}

func (c *HTTPClient) getSummary(ctx context.Context, baseURL string) (cohort.Summary, error) {
	var summary cohort.Summary
	if err := c.do(ctx, http.MethodGet, baseURL+"/summary", nil, &summary); err != nil {
		return cohort.Summary{}, err
	}
	return summary, nil
}
