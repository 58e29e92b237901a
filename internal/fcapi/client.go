package fcapi

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

	"github.com/tidwall/gjson"
)

// Breakdown kinds served by the stats API.
const (
	BreakdownAssist  = "assist"
	BreakdownShot    = "shot"
	BreakdownPass    = "pass"
	BreakdownHeading = "heading"
)

var breakdownKinds = map[string]struct{}{
	BreakdownAssist:  {},
	BreakdownShot:    {},
	BreakdownPass:    {},
	BreakdownHeading: {},
}

// APIError is a non-200 answer from the stats API. Message comes from the
// upstream error envelope when one is present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fcapi: upstream status %d: %s", e.Status, e.Message)
}

// Client fetches dashboard resources from the stats API. Payload shapes
// are opaque here; they are validated as JSON and passed through.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) MatchDetail(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.get(ctx, "/matches/"+url.PathEscape(matchID), nil)
}

func (c *Client) MatchAnalysis(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.get(ctx, "/matches/"+url.PathEscape(matchID)+"/analysis", nil)
}

func (c *Client) MatchHeatmap(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.get(ctx, "/matches/"+url.PathEscape(matchID)+"/heatmap", nil)
}

func (c *Client) PowerRankings(ctx context.Context, ouid, matchtype string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("ouid", ouid)
	q.Set("matchtype", matchtype)
	q.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, "/rankings/power", q)
}

func (c *Client) TierInfo(ctx context.Context, ouid, matchtype string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("matchtype", matchtype)
	return c.get(ctx, "/users/"+url.PathEscape(ouid)+"/tier", q)
}

func (c *Client) FormCycle(ctx context.Context, ouid, matchtype string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("matchtype", matchtype)
	return c.get(ctx, "/users/"+url.PathEscape(ouid)+"/form-cycle", q)
}

func (c *Client) Breakdown(ctx context.Context, ouid, matchtype, kind string) (json.RawMessage, error) {
	if _, ok := breakdownKinds[kind]; !ok {
		return nil, fmt.Errorf("fcapi: unknown breakdown kind %q", kind)
	}
	q := url.Values{}
	q.Set("matchtype", matchtype)
	return c.get(ctx, "/users/"+url.PathEscape(ouid)+"/breakdowns/"+kind, q)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(body, resp.StatusCode),
		}
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("fcapi: upstream payload is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// errorMessage digs the message out of the upstream error envelope
// {"error":{"message":...}} without committing to the rest of its shape.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "error.message"); m.Exists() {
			return m.String()
		}
	}
	return http.StatusText(status)
}
