// Package genai provides a thin client for a hosted generative-text API
// (Gemini-style generateContent endpoint). The client adds per-request
// timeouts, bounded retries with linear backoff, and structured logging.
//
// Callers depend on the Generator interface, not the concrete client, so
// the assistant layer can be tested with an in-process fake. The client
// returns an error for every failure mode (transport, non-2xx status,
// undecodable body, empty candidate list); the decision to substitute a
// fallback string belongs to the caller.
package genai

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
	"time"

	"github.com/rs/zerolog/log"
)

// Generator is the single operation this core needs from the hosted text
// model: submit a prompt, receive a completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the API answers 2xx but carries no
// candidate text.
var ErrEmptyCompletion = errors.New("genai: empty completion")

// ErrDisabled is returned by the generator from Disabled.
var ErrDisabled = errors.New("genai: generation disabled")

type disabledGen struct{}

func (disabledGen) Generate(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// Disabled returns a Generator that always fails, steering callers onto
// their deterministic fallbacks. Used when no API key is configured.
func Disabled() Generator { return disabledGen{} }

// Config holds settings for the hosted text-generation client.
type Config struct {
	// BaseURL is the API root, e.g. "https://generativelanguage.googleapis.com".
	BaseURL string
	// Model is the model identifier, e.g. "gemini-1.5-flash".
	Model string
	// APIKey authenticates requests; passed as a query parameter.
	APIKey string
	// Timeout is the per-attempt request timeout.
	Timeout time.Duration
	// Retries is the number of retry attempts after the first failure.
	Retries int
	// Backoff is the base delay between attempts, multiplied linearly.
	Backoff time.Duration
}

// DefaultConfig returns sensible defaults; BaseURL, Model, and APIKey still
// need to be set from configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 20 * time.Second,
		Retries: 2,
		Backoff: 400 * time.Millisecond,
	}
}

// Client calls the generateContent endpoint over HTTP. Safe for concurrent
// use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a Client. A nil httpClient gets a default with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("genai: invalid base url: %w", err)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("genai: model must not be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// Request/response wire shapes for the generateContent call.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate submits the prompt and returns the first candidate's text,
// retrying transient failures up to the configured attempt budget.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("genai: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	if c.cfg.APIKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.cfg.APIKey)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.Backoff * time.Duration(attempt)):
			}
		}

		text, err := c.attempt(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Str("model", c.cfg.Model).
			Msg("genai request failed")
	}
	return "", fmt.Errorf("genai: generate failed after retries: %w", lastErr)
}

// attempt performs one request/decode cycle with its own timeout.
func (c *Client) attempt(ctx context.Context, endpoint string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for the log line, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("genai: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				return t, nil
			}
		}
	}
	return "", ErrEmptyCompletion
}
