package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const geminiProviderName = "gemini"

// GeminiConfig holds configuration for the Gemini gateway.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultGeminiConfig returns the production endpoint with the standard
// per-call timeout.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Timeout: 60 * time.Second,
	}
}

// GeminiClient calls the Gemini generateContent API. The model identifier is
// an argument to Generate rather than client state so the model selector can
// probe several candidates through one client.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiClient creates a Gemini gateway with default configuration.
func NewGeminiClient(apiKey string, logger *zap.Logger) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey), logger)
}

// NewGeminiClientWithConfig creates a Gemini gateway with custom config.
func NewGeminiClientWithConfig(config GeminiConfig, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Generate sends one generateContent request and returns the concatenated
// text of the first candidate. A response with no candidates or no text
// parts yields ("", nil); the caller decides what an empty completion means.
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string, params GenerationParams) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("API key not configured")}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     params.Temperature,
			TopP:            params.TopP,
			TopK:            params.TopK,
			MaxOutputTokens: params.MaxOutputTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{
			Provider: geminiProviderName,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("API request failed: %s", strings.TrimSpace(string(body))),
		}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &Error{Provider: geminiProviderName, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if geminiResp.Error != nil {
		return "", &Error{
			Provider: geminiProviderName,
			Status:   geminiResp.Error.Code,
			Err:      fmt.Errorf("API error: %s", geminiResp.Error.Message),
		}
	}

	if len(geminiResp.Candidates) == 0 {
		return "", nil
	}
	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}

	// Returned verbatim: the composer shows generated text without
	// post-processing, so no trimming here.
	text := result.String()
	c.logger.Debug("gemini generate completed",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)))
	return text, nil
}
