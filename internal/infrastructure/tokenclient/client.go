// Package tokenclient fetches room join tokens from the salon backend.
package tokenclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Client calls the backend token endpoint. It implements call.TokenSource.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a token client against the backend base URL.
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log.With().Str("component", "token-client").Logger(),
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token requests a join token for the named room. Errors name the backend
// so the operator knows what to check first.
func (c *Client) Token(ctx context.Context, room string) (string, error) {
	u := fmt.Sprintf("%s/api/token?room=%s", c.baseURL, url.QueryEscape(room))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed (is the salon backend running at %s?): %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token request returned %d (is the salon backend running at %s?): %s",
			resp.StatusCode, c.baseURL, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token response missing token field")
	}

	c.log.Debug().Str("room", room).Msg("token fetched")
	return tr.Token, nil
}
