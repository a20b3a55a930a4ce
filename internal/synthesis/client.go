package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fablecast/internal/config"
	"fablecast/internal/services"
)

const defaultHTTPTimeout = 120 * time.Second

// Client talks to an OpenAI-compatible speech endpoint.
type Client struct {
	cfg        config.Synthesis
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a synthesis client from the supplied configuration.
func NewClient(cfg config.Synthesis, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ListVoices enumerates the provider's voices.
func (c *Client) ListVoices(ctx context.Context) ([]VoiceInfo, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/audio/voices"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "synthesis", "list-voices", "new request", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "synthesis", "list-voices", "http error", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrProvider, "synthesis", "list-voices",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var voices []VoiceInfo
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return nil, services.Wrap(services.ErrProvider, "synthesis", "list-voices", "decode response", err)
	}
	return voices, nil
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}

// Synthesize speaks text with the given voice and writes the audio artifact
// to destPath. The write goes through a temp file in the destination
// directory so a failed call never leaves a truncated artifact behind.
func (c *Client) Synthesize(ctx context.Context, text, voiceID, destPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return services.Wrap(services.ErrValidation, "synthesis", "speak", "text required", nil)
	}
	if strings.TrimSpace(voiceID) == "" {
		return services.Wrap(services.ErrValidation, "synthesis", "speak", "voice id required", nil)
	}

	payload := speechRequest{
		Model:          c.cfg.Model,
		Input:          text,
		Voice:          voiceID,
		ResponseFormat: c.cfg.Format,
		Speed:          c.cfg.Speed,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrProvider, "synthesis", "speak", "encode body", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrProvider, "synthesis", "speak", "new request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrProvider, "synthesis", "speak", "http error", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return services.Wrap(services.ErrProvider, "synthesis", "speak",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	return writeArtifact(destPath, resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}

func writeArtifact(destPath string, audio io.Reader) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "synthesis", "write-artifact", "create audio directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return services.Wrap(services.ErrTransient, "synthesis", "write-artifact", "create temp file", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, audio); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, "synthesis", "write-artifact", "write audio", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, "synthesis", "write-artifact", "close temp file", err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, "synthesis", "write-artifact", "finalize artifact", err)
	}
	return nil
}
