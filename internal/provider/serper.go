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

const serperProviderName = "serper"

// SerperConfig holds configuration for the Serper search gateway.
type SerperConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultSerperConfig returns the production endpoint with the standard
// per-call timeout.
func DefaultSerperConfig(apiKey string) SerperConfig {
	return SerperConfig{
		APIKey:  apiKey,
		BaseURL: "https://google.serper.dev",
		Timeout: 10 * time.Second,
	}
}

// SerperClient calls the Serper web-search API.
type SerperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSerperClient creates a Serper gateway with default configuration.
func NewSerperClient(apiKey string, logger *zap.Logger) *SerperClient {
	return NewSerperClientWithConfig(DefaultSerperConfig(apiKey), logger)
}

// NewSerperClientWithConfig creates a Serper gateway with custom config.
func NewSerperClientWithConfig(config SerperConfig, logger *zap.Logger) *SerperClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SerperClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

// Search issues one search request and returns the parsed response.
func (c *SerperClient) Search(ctx context.Context, query string, resultCount int) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("API key not configured")}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	jsonData, err := json.Marshal(serperRequest{Query: query, Num: resultCount})
	if err != nil {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(jsonData))
	if err != nil {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Provider: serperProviderName,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("API request failed: %s", strings.TrimSpace(string(body))),
		}
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, &Error{Provider: serperProviderName, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	c.logger.Debug("serper search completed",
		zap.String("query", query),
		zap.Int("organic_results", len(searchResp.Organic)))
	return &searchResp, nil
}
