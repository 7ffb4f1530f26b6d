package fishaudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"backend/internal/apperr"
	"backend/internal/config"

	"go.uber.org/zap"
)

// Client wraps the Fish Audio text-to-speech endpoint. Synthesized
// audio comes back as raw MP3 bytes; storage is the caller's problem.
type Client struct {
	cfg    config.FishAudioConfig
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewClient(cfg config.FishAudioConfig, logger *zap.Logger) *Client {
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

// Request selects either a custom voice model (ReferenceID) or a
// standard voice (VoiceID); VoiceInstructions is free-form guidance.
type Request struct {
	Text              string `json:"text"`
	Language          string `json:"language"`
	VoiceID           string `json:"voice_id,omitempty"`
	ReferenceID       string `json:"reference_id,omitempty"`
	VoiceInstructions string `json:"voice_instructions,omitempty"`
}

func (c *Client) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if req.Language == "" {
		req.Language = "en"
	}
	if req.ReferenceID == "" && req.VoiceID == "" {
		req.VoiceID = c.cfg.DefaultVoice
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "fishaudio", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "fishaudio", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "fishaudio", Err: fmt.Errorf("tts request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apperr.ProviderError{
			Provider:   "fishaudio",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", string(body)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "fishaudio", StatusCode: resp.StatusCode, Err: err}
	}
	if len(audio) == 0 {
		return nil, &apperr.ProviderError{Provider: "fishaudio", StatusCode: resp.StatusCode, Err: fmt.Errorf("empty audio response")}
	}

	c.logger.Debugw("Speech synthesized", "bytes", len(audio))
	return audio, nil
}
