// Package provider contains the gateway clients for the external services the
// assistant talks to: Gemini for generation, Serper for web search, and the
// AliExpress marketplace API for product search. Each gateway issues a single
// HTTP request per call with its own fixed timeout and reports failures as a
// typed *Error; nothing in this package retries.
package provider

import (
	"context"
	"fmt"
)

// Error is the typed failure returned by every gateway in this package.
// Status is zero when the request never reached the remote side.
type Error struct {
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// GenerationParams are the sampling parameters for a generation call.
// The pipeline treats these as policy constants, not user configuration.
type GenerationParams struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// GenerationClient issues one generation request against a named model.
// An empty returned string with a nil error means the provider answered
// successfully but produced no usable text.
type GenerationClient interface {
	Generate(ctx context.Context, model, prompt string, params GenerationParams) (string, error)
}

// SearchClient issues one web-search request.
type SearchClient interface {
	Search(ctx context.Context, query string, resultCount int) (*SearchResponse, error)
}

// MarketplaceClient issues one marketplace product search.
type MarketplaceClient interface {
	Search(ctx context.Context, query string, limit int) ([]Product, error)
}

// SearchResponse holds the parsed body of a Serper search call. Only the
// organic results are consumed downstream.
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult is one organic entry in a search response. Snippet may be
// absent; callers substitute the empty string rather than treating that as
// an error.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Product is one marketplace search hit.
type Product struct {
	Title  string `json:"title"`
	Price  string `json:"price"`
	Rating string `json:"rating"`
}
