// Package client fetches launch records from a tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"rocket-tracker/internal/fleet"
)

const maxResponseBytes = 16 << 20

var (
	ErrNonOkResponse     = errors.New("non-OK response")
	ErrRateLimited       = errors.New("rate limited")
	ErrEmptyResponseBody = errors.New("empty response body")
	ErrNonJSONContent    = errors.New("non-JSON content type")
)

// Client talks to the tracker HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Launches returns every launch known to the API.
func (c *Client) Launches(ctx context.Context) ([]fleet.LaunchRecord, error) {
	return c.launches(ctx, "/api/getlaunches")
}

// BoosterLaunches returns the launches flown by one booster.
func (c *Client) BoosterLaunches(ctx context.Context, number string) ([]fleet.LaunchRecord, error) {
	return c.launches(ctx, "/api/mission/booster/"+url.PathEscape(number))
}

// ShipLaunches returns the launches flown by one ship.
func (c *Client) ShipLaunches(ctx context.Context, number string) ([]fleet.LaunchRecord, error) {
	return c.launches(ctx, "/api/mission/ship/"+url.PathEscape(number))
}

func (c *Client) launches(ctx context.Context, path string) ([]fleet.LaunchRecord, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	launches, err := decodeLaunches(body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return launches, nil
}

// decodeLaunches accepts a bare array or an object wrapping the array in
// "message" or "launches". Any other JSON value holds no launches.
func decodeLaunches(body []byte) ([]fleet.LaunchRecord, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return nil, ErrEmptyResponseBody
	case trimmed[0] == '[':
		var launches []fleet.LaunchRecord
		if err := json.Unmarshal(trimmed, &launches); err != nil {
			return nil, fmt.Errorf("decode launches: %w", err)
		}
		return launches, nil
	case trimmed[0] == '{':
		var wrapped struct {
			Message  json.RawMessage `json:"message"`
			Launches json.RawMessage `json:"launches"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode launches: %w", err)
		}
		for _, raw := range []json.RawMessage{wrapped.Message, wrapped.Launches} {
			if raw = bytes.TrimSpace(raw); len(raw) > 0 && raw[0] == '[' {
				var launches []fleet.LaunchRecord
				if err := json.Unmarshal(raw, &launches); err != nil {
					return nil, fmt.Errorf("decode launches: %w", err)
				}
				return launches, nil
			}
		}
		return []fleet.LaunchRecord{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("decode launches: invalid JSON")
	}
	return []fleet.LaunchRecord{}, nil
}

// get sends a GET request and returns the body of a successful JSON response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("GET %s: %w%s", path, ErrRateLimited, detailSuffix(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: %w %s%s", path, ErrNonOkResponse, resp.Status, detailSuffix(body))
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("GET %s: %w", path, ErrEmptyResponseBody)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, fmt.Errorf("GET %s: %w, %s", path, ErrNonJSONContent, ct)
	}
	return body, nil
}

// detailSuffix extracts the API's {"detail": ...} message, if any.
func detailSuffix(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &e) != nil || e.Detail == "" {
		return ""
	}
	return ": " + e.Detail
}
