// Package contentapi is a Store backed by the league's headless content API.
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/domain/games"
)

// Config controls how the client reaches the content API.
type Config struct {
	BaseURL string
	// DeliveryToken authorizes reads.
	DeliveryToken string
	// ManagementToken authorizes score and result writes.
	ManagementToken string
	HTTPClient      *http.Client
	Timezone        string
	PageSize        int
	MaxPages        int
}

// Client fetches and updates game entries.
type Client struct {
	baseURL         string
	deliveryToken   string
	managementToken string
	httpClient      httpDoer
	now             func() time.Time
	loc             *time.Location
	pageSize        int
	maxPages        int
}

// NewClient constructs a content API client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:         normalizeBaseURL(cfg.BaseURL),
		deliveryToken:   cfg.DeliveryToken,
		managementToken: cfg.ManagementToken,
		httpClient:      resolveHTTPClient(cfg.HTTPClient),
		now:             time.Now,
		loc:             resolveLocation(cfg.Timezone),
		pageSize:        resolvePositive(cfg.PageSize, defaultPageSize),
		maxPages:        resolvePositive(cfg.MaxPages, defaultMaxPages),
	}
}

// FetchGames pages through every game entry ordered by game number. The age
// group narrows upstream; the remaining filter fields apply client-side.
func (c *Client) FetchGames(ctx context.Context, filter contentstore.Filter) ([]games.Game, error) {
	if c.baseURL == "" {
		return nil, contentstore.ErrUnavailable
	}

	all := make([]games.Game, 0)
	for page := 0; page < c.maxPages; page++ {
		req, err := c.listRequest(ctx, filter, page*c.pageSize)
		if err != nil {
			return nil, err
		}

		var payload entriesResponse
		if err := c.do(req, &payload); err != nil {
			return nil, err
		}
		for _, e := range payload.Items {
			all = append(all, mapGame(e, c.loc))
		}

		seen := payload.Skip + len(payload.Items)
		if len(payload.Items) == 0 || seen >= payload.Total {
			break
		}
	}
	return filter.Apply(all), nil
}

// PersistScore overwrites the score fields and returns the saved entry's values.
func (c *Client) PersistScore(ctx context.Context, gameID string, scoreA, scoreB int) (games.PersistResult, error) {
	var saved entry
	if err := c.put(ctx, gameID, "score", scoreRequest{ScoreA: scoreA, ScoreB: scoreB}, &saved); err != nil {
		return games.PersistResult{}, err
	}
	return mapPersisted(saved), nil
}

// PersistResult writes both result fields.
func (c *Client) PersistResult(ctx context.Context, gameID string, resultA, resultB games.Result) error {
	return c.put(ctx, gameID, "result", resultRequest{ResultTeamA: string(resultA), ResultTeamB: string(resultB)}, nil)
}

func (c *Client) listRequest(ctx context.Context, filter contentstore.Filter, skip int) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("order", "fields.gameNumber")
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("skip", strconv.Itoa(skip))
	if filter.AgeGroup != "" {
		q.Set("ageGroup", filter.AgeGroup)
	}
	req.URL.RawQuery = q.Encode()

	c.authorize(req, c.deliveryToken)
	return req, nil
}

func (c *Client) put(ctx context.Context, gameID, field string, body any, out any) error {
	if c.baseURL == "" {
		return contentstore.ErrUnavailable
	}
	if strings.TrimSpace(gameID) == "" {
		return contentstore.ErrNotFound
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/games/%s/%s", c.baseURL, url.PathEscape(gameID), field)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, c.managementToken)
	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return contentstore.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &contentstore.StatusError{
			Store:      Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", Name, err)
	}
	return nil
}
