package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 3 * time.Second

// HTTPClient talks to a ledger service over its JSON HTTP API. Every call is
// bounded by the client timeout on top of the caller's context; slow remotes
// degrade to sync failures, never to blocked gameplay.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a ledger client for baseURL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GetPlayerProfile(ctx context.Context, playerID string) (*RemoteProfile, error) {
	var profile RemoteProfile
	if err := c.do(ctx, http.MethodGet, "/v1/players/"+playerID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) UpdateExperience(ctx context.Context, playerID string, delta int64) error {
	body := map[string]any{"delta": delta}
	return c.do(ctx, http.MethodPost, "/v1/players/"+playerID+"/experience", body, nil)
}

func (c *HTTPClient) UpdateMissionProgress(ctx context.Context, playerID, missionID string, progress int) error {
	body := map[string]any{"mission_id": missionID, "progress": progress}
	return c.do(ctx, http.MethodPost, "/v1/players/"+playerID+"/missions", body, nil)
}

func (c *HTTPClient) JoinGuild(ctx context.Context, playerID, guildID string) error {
	body := map[string]any{"guild_id": guildID}
	return c.do(ctx, http.MethodPost, "/v1/players/"+playerID+"/guild", body, nil)
}

func (c *HTTPClient) LeaveGuild(ctx context.Context, playerID, guildID string) error {
	body := map[string]any{"guild_id": guildID}
	return c.do(ctx, http.MethodDelete, "/v1/players/"+playerID+"/guild", body, nil)
}

func (c *HTTPClient) AwardLoyaltyPoints(ctx context.Context, playerID string, points int64) error {
	body := map[string]any{"points": points}
	return c.do(ctx, http.MethodPost, "/v1/players/"+playerID+"/loyalty", body, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ledger returned status %d for %s %s", resp.StatusCode, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode ledger response: %w", err)
		}
	}
	return nil
}
