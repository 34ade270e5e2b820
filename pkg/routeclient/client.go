// Package routeclient talks to the routing service that owns the campus
// graph and computes routes.
//
// Calls carry no client-side timeout and are never retried: a failure is
// returned once and the caller decides what to do. Cancel through ctx.
package routeclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"

	"github.com/ha1tch/campusmap/pkg/graph"
)

// ErrStatus marks responses with a non-2xx status.
var ErrStatus = errors.New("routing service error")

// StatusError carries the status and the service's detail message.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("routing service: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("routing service: %d: %s", e.Code, e.Detail)
}

// Client calls the routing service at BaseURL.
type Client struct {
	BaseURL string
	Token   string // sent as a bearer token when set
	HTTP    *http.Client
}

// New returns a client for baseURL.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{},
	}
}

// Graph fetches the campus graph.
func (c *Client) Graph(ctx context.Context) (*graph.Graph, error) {
	body, err := c.do(ctx, http.MethodGet, "/graph", nil)
	if err != nil {
		return nil, err
	}
	g, err := graph.ParseJSON(body)
	if err != nil {
		return nil, errors.Wrap(err, "graph response")
	}
	return g, nil
}

// Navigate asks for a route between two nodes.
func (c *Client) Navigate(ctx context.Context, req graph.RouteRequest) (graph.RouteResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return graph.RouteResponse{}, errors.Wrap(err, "encode route request")
	}
	body, err := c.do(ctx, http.MethodPost, "/navigate", payload)
	if err != nil {
		return graph.RouteResponse{}, err
	}
	var resp graph.RouteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return graph.RouteResponse{}, errors.Wrap(err, "decode route response")
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Mark(&StatusError{Code: resp.StatusCode, Detail: detail(data)}, ErrStatus)
	}
	return data, nil
}

// detail extracts the service's {"detail": ...} message. Non-string details
// (validation error lists) are returned as raw JSON.
func detail(body []byte) string {
	var e struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}
