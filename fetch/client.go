// Package fetch retrieves posts from an external demo REST API.
//
// The fetcher is deliberately demo-grade: one bounded-timeout GET per call,
// no retry, no backoff. Network failures, non-2xx statuses, and malformed
// payloads all collapse into a single *FetchError carrying a diagnostic
// message, so callers never see partial results.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public JSONPlaceholder demo API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// defaultTimeout bounds a single fetch when the caller's context carries no
// deadline of its own.
const defaultTimeout = 10 * time.Second

// Post is one post-like record from the upstream API, simplified to the
// fields worth feeding back into an LLM context.
type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// FetchError is the single failure kind for the external fetcher.
//
// Use errors.As to inspect it; Unwrap exposes the underlying cause when one
// exists (network errors, JSON decode errors). Status is non-zero when the
// upstream answered with a non-2xx code.
type FetchError struct {
	Message string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch posts: %s (status %d)", e.Message, e.Status)
	}
	return "fetch posts: " + e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches posts from a JSONPlaceholder-style endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL.
//
// An empty baseURL selects DefaultBaseURL. A non-positive timeout selects
// the package default. The timeout applies per request, in addition to any
// deadline on the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Posts performs one GET against the upstream /posts resource and returns up
// to limit items.
//
// A non-positive limit is treated as 1, matching the tool schema default.
// The upstream is asked for the limit via the _limit query parameter, and the
// result is truncated again locally in case the upstream ignores it. On any
// failure the returned slice is nil and the error is a *FetchError.
func (c *Client) Posts(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 1
	}

	url := fmt.Sprintf("%s/posts?_limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Message: "build request: " + err.Error(), Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Message: "request failed: " + err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Message: "unexpected upstream status",
			Status:  resp.StatusCode,
		}
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, &FetchError{Message: "decode payload: " + err.Error(), Err: err}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
