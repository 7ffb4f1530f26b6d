package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/config"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.OpenAIConfig{
		APIKey:     "sk-test-secret",
		BaseURL:    srv.URL,
		EmbedModel: "text-embedding-ada-002",
		ChatModel:  "gpt-4",
		Timeout:    5 * time.Second,
	}, zap.NewNop())
}

func TestEmbed(t *testing.T) {
	var gotAuth, gotModel string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel, _ = req["model"].(string)

		vec := make([]float32, EmbeddingDim)
		vec[0] = 0.25
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": vec}},
		})
	})

	vec, err := c.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != EmbeddingDim {
		t.Errorf("dimension = %d, want %d", len(vec), EmbeddingDim)
	}
	if vec[0] != 0.25 {
		t.Errorf("vec[0] = %f", vec[0])
	}
	if gotAuth != "Bearer sk-test-secret" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotModel != "text-embedding-ada-002" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{1, 2, 3}}},
		})
	})

	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for short vector")
	}
}

func TestComplete(t *testing.T) {
	var sys, usr string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) == 2 {
			sys = req.Messages[0].Content
			usr = req.Messages[1].Content
		}
		if req.Temperature != 0.7 {
			t.Errorf("temperature = %f", req.Temperature)
		}
		if req.MaxTokens != 500 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}

		fmt.Fprint(w, `{"choices":[{"message":{"content":"sure thing"}}]}`)
	})

	reply, err := c.Complete(context.Background(), "what's up?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "sure thing" {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(sys, "AI avatar") {
		t.Errorf("system message = %q", sys)
	}
	if usr != "what's up?" {
		t.Errorf("user message = %q", usr)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})

	_, err := c.Complete(context.Background(), "p")
	var genErr *apperr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want GenerationError", err)
	}
}

func TestErrorCarriesStatusButNotKey(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	})

	_, err := c.Embed(context.Background(), "x")
	var provErr *apperr.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want ProviderError", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", provErr.StatusCode)
	}
	if strings.Contains(err.Error(), "sk-test-secret") {
		t.Errorf("error leaks the API key: %v", err)
	}
}

func TestNoRetryOnFailure(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("requests = %d, want 1", calls)
	}
}
