package assistant

import (
	"context"

	"go.uber.org/zap"

	"shopassist/internal/provider"
)

// SearchContext holds the snippets extracted from a web-search response,
// in provider order. It is built per query and discarded once folded into a
// generation prompt. A nil SearchContext means no grounding is available.
type SearchContext []string

const (
	// searchResultCount is how many results the search request asks for.
	searchResultCount = 10
	// maxSnippets caps how many organic snippets feed the prompt.
	maxSnippets = 3
)

// Augmenter fetches web-search snippets as optional grounding context for
// substantive queries.
type Augmenter struct {
	search provider.SearchClient
	logger *zap.Logger
}

// NewAugmenter creates an augmenter. A nil search client disables
// augmentation: Augment then always returns nil.
func NewAugmenter(search provider.SearchClient, logger *zap.Logger) *Augmenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Augmenter{search: search, logger: logger}
}

// Augment issues one search request and extracts up to the first three
// organic snippets, preserving result order. Any search failure yields nil;
// the caller proceeds without context. A result missing its snippet field
// contributes an empty string rather than being skipped.
func (a *Augmenter) Augment(ctx context.Context, query string) SearchContext {
	if a.search == nil {
		return nil
	}

	resp, err := a.search.Search(ctx, query, searchResultCount)
	if err != nil {
		a.logger.Debug("search augmentation unavailable",
			zap.String("query", query),
			zap.Error(err))
		return nil
	}

	organic := resp.Organic
	if len(organic) > maxSnippets {
		organic = organic[:maxSnippets]
	}
	snippets := make(SearchContext, 0, len(organic))
	for _, result := range organic {
		snippets = append(snippets, result.Snippet)
	}
	return snippets
}
