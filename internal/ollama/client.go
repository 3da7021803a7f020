// Package ollama implements the inference client for a local Ollama
// endpoint. The pipeline treats the backend as a free-text generator:
// structured output is the caller's parsing problem, not the wire
// contract.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/service"
)

// Client is the contract the suggestion engine consumes.
type Client interface {
	// Generate sends a prompt and returns the raw generated text.
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	// HealthCheck reports whether the endpoint is reachable and the
	// configured model is installed, pulling it when absent. It is
	// advisory and may be slow; callers must not block pipeline work
	// on it.
	HealthCheck(ctx context.Context) bool
	// Model returns the configured model identifier.
	Model() string
}

// Config holds the inference client configuration.
type Config struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	RetryDelay  time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// HTTPClient talks to the Ollama HTTP API.
type HTTPClient struct {
	httpClient  *http.Client
	logger      *slog.Logger
	baseURL     string
	model       string
	retryOpts   service.RetryOptions
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// NewClient creates an inference client. Zero-valued Config fields
// fall back to defaults suitable for a local Ollama install.
func NewClient(cfg Config, logger *slog.Logger) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3:latest"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Model returns the configured model identifier.
func (c *HTTPClient) Model() string {
	return c.model
}

// Generate sends the prompt to the inference endpoint with retry on
// transient failures. A response that arrives but cannot be decoded is
// a content problem and is not retried. Exhausting the retry attempts
// marks the backend unavailable so callers can degrade.
func (c *HTTPClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var response string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		response, genErr = c.generate(ctx, prompt, systemPrompt)
		return genErr
	}, c.retryOpts)
	if err != nil {
		if errors.Is(err, common.ErrMaxRetries) {
			return "", fmt.Errorf("%w: %w", common.ErrInferenceUnavailable, err)
		}
		return "", err
	}
	return response, nil
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Options generateOptions `json:"options"`
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *HTTPClient) generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
			TopK:        40,
			TopP:        0.9,
		},
	})
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("failed to marshal request: %w", err), Retryable: false}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("request failed: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("inference endpoint returned status %d: %s", resp.StatusCode, string(respBody)),
			Retryable: true,
		}
	}

	var decoded generateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrMalformedResponse, err),
			Retryable: false,
		}
	}

	return strings.TrimSpace(decoded.Response), nil
}

// tagsResponse is the Ollama /api/tags response body.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// HealthCheck confirms the endpoint is reachable and the configured
// model is installed. A missing model triggers a pull before reporting
// availability.
func (c *HTTPClient) HealthCheck(ctx context.Context) bool {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Inference health check failed", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Inference health check failed", "status", resp.StatusCode)
		return false
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		c.logger.Error("Inference health check returned malformed tags", "error", err)
		return false
	}

	models := make([]string, 0, len(tags.Models))
	installed := false
	for _, m := range tags.Models {
		models = append(models, m.Name)
		if m.Name == c.model {
			installed = true
		}
	}
	c.logger.Info("Available inference models", "models", models)

	if !installed {
		c.logger.Warn("Configured model not installed, pulling", "model", c.model)
		c.pullModel(ctx)
	}

	return true
}

// pullModel fetches the configured model from the registry. Pull
// progress arrives as newline-delimited JSON records.
func (c *HTTPClient) pullModel(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	body, err := json.Marshal(map[string]string{"name": c.model})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to pull model", "model", c.model, "error", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.logger.Debug("Pull progress", "line", line)
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("Model pull stream ended early", "model", c.model, "error", err)
	}
}
