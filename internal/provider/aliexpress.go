package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const aliexpressProviderName = "aliexpress"

// AliExpressConfig holds configuration for the marketplace gateway.
type AliExpressConfig struct {
	APIKey  string
	BaseURL string
	Host    string
	Timeout time.Duration
}

// DefaultAliExpressConfig returns the RapidAPI endpoint with the standard
// per-call timeout.
func DefaultAliExpressConfig(apiKey string) AliExpressConfig {
	return AliExpressConfig{
		APIKey:  apiKey,
		BaseURL: "https://aliexpress-datahub.p.rapidapi.com",
		Host:    "aliexpress-datahub.p.rapidapi.com",
		Timeout: 10 * time.Second,
	}
}

// AliExpressClient calls the AliExpress product-search API via RapidAPI.
// The capability is exposed on the CLI but is not part of the primary
// question-answering pipeline.
type AliExpressClient struct {
	apiKey     string
	baseURL    string
	host       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAliExpressClient creates a marketplace gateway with default configuration.
func NewAliExpressClient(apiKey string, logger *zap.Logger) *AliExpressClient {
	return NewAliExpressClientWithConfig(DefaultAliExpressConfig(apiKey), logger)
}

// NewAliExpressClientWithConfig creates a marketplace gateway with custom config.
func NewAliExpressClientWithConfig(config AliExpressConfig, logger *zap.Logger) *AliExpressClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AliExpressClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		host:       config.Host,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type aliexpressResponse struct {
	Results []Product `json:"results"`
}

// Search issues one product-search request and returns the parsed results in
// provider order.
func (c *AliExpressClient) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	if c.apiKey == "" {
		return nil, &Error{Provider: aliexpressProviderName, Err: fmt.Errorf("API key not configured")}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Provider: aliexpressProviderName, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Provider: aliexpressProviderName, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: aliexpressProviderName, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Provider: aliexpressProviderName,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("API request failed: %s", strings.TrimSpace(string(body))),
		}
	}

	var marketResp aliexpressResponse
	if err := json.Unmarshal(body, &marketResp); err != nil {
		return nil, &Error{Provider: aliexpressProviderName, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	c.logger.Debug("aliexpress search completed",
		zap.String("query", query),
		zap.Int("results", len(marketResp.Results)))
	return marketResp.Results, nil
}
