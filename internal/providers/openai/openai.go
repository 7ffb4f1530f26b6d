package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"backend/internal/apperr"
	"backend/internal/config"

	"go.uber.org/zap"
)

// EmbeddingDim is the output dimension of the embedding model; the
// vector column and the ANN index are declared with the same size.
const EmbeddingDim = 1536

const systemPrompt = "You are an AI avatar that responds in a personalized way based on the provided context and personality traits."

// Client wraps the embeddings and chat-completions endpoints. There is
// no retry and no backoff: callers run as fire-and-forget jobs and
// decide for themselves what a failure means.
type Client struct {
	cfg    config.OpenAIConfig
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Sugar(),
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed turns text into a fixed-length vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embeddingResponse
	err := c.post(ctx, "/v1/embeddings", embeddingRequest{
		Model: c.cfg.EmbedModel,
		Input: text,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, &apperr.ProviderError{Provider: "openai", Err: fmt.Errorf("embeddings response has no data")}
	}
	vec := resp.Data[0].Embedding
	if len(vec) != EmbeddingDim {
		return nil, &apperr.ProviderError{Provider: "openai", Err: fmt.Errorf("unexpected embedding dimension %d", len(vec))}
	}
	return vec, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the composed prompt and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var resp completionResponse
	err := c.post(ctx, "/v1/chat/completions", completionRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &apperr.GenerationError{Msg: "completion returned no usable content"}
	}
	return resp.Choices[0].Message.Content, nil
}

// post never puts the API key into a returned error: failures carry
// only the status code and the (truncated) response body.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &apperr.ProviderError{Provider: "openai", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &apperr.ProviderError{Provider: "openai", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperr.ProviderError{Provider: "openai", Err: fmt.Errorf("request %s failed: %w", path, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &apperr.ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperr.ProviderError{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(string(raw), 512)),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &apperr.ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
