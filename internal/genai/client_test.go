package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: baseURL,
		Model:   "test-model",
		APIKey:  "secret",
		Timeout: 2 * time.Second,
		Retries: retries,
		Backoff: time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func completion(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "://bad", Model: "m"}, nil); err == nil {
		t.Fatalf("invalid base URL should fail")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost", Model: "  "}, nil); err == nil {
		t.Fatalf("empty model should fail")
	}
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/v1beta/models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("missing api key: %s", r.URL.RawQuery)
		}
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "say hi" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(completion("  hello there  ")))
	}))
	defer srv.Close()

	got, err := testClient(t, srv.URL, 0).Generate(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("text = %q, want trimmed completion", got)
	}
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(completion("recovered")))
	}))
	defer srv.Close()

	got, err := testClient(t, srv.URL, 2).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("text = %q", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerate_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 1).Generate(context.Background(), "p")
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 (first try + 1 retry)", calls.Load())
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 0).Generate(context.Background(), "p")
	if err == nil || !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestGenerate_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: time.Second,
		Retries: 5,
		Backoff: time.Hour, // cancellation must interrupt the wait
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Generate(ctx, "p"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context deadline", err)
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled().Generate(context.Background(), "p")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}
