package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/provider"
)

func TestCompose_UnreadyHandleNeverCallsProvider(t *testing.T) {
	gen := &fakeGeneration{results: map[string]string{"gemini-2.5-flash": "should not be used"}}
	c := NewComposer(gen, ModelHandle{}, nil)

	got := c.Compose(context.Background(), "best laptop", nil)

	assert.Equal(t, FallbackMessage, got)
	assert.Empty(t, gen.calls, "no network call may happen in fallback mode")
}

func TestCompose_ReturnsGeneratedTextVerbatim(t *testing.T) {
	gen := &fakeGeneration{results: map[string]string{"gemini-2.5-flash": "## Great choice\n\nThe answer."}}
	c := NewComposer(gen, ModelHandle{Identifier: "gemini-2.5-flash", Ready: true}, nil)

	got := c.Compose(context.Background(), "best laptop", nil)

	assert.Equal(t, "## Great choice\n\nThe answer.", got)
	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].prompt, `User asked: "best laptop"`)
}

func TestCompose_EmptyGenerationYieldsNoResponseMessage(t *testing.T) {
	gen := &fakeGeneration{results: map[string]string{"gemini-2.5-flash": ""}}
	c := NewComposer(gen, ModelHandle{Identifier: "gemini-2.5-flash", Ready: true}, nil)

	got := c.Compose(context.Background(), "q", nil)

	assert.Equal(t, NoResponseMessage, got)
}

func TestCompose_ProviderErrorYieldsErrorMessage(t *testing.T) {
	gen := &fakeGeneration{
		errs: map[string]error{
			"gemini-2.5-flash": &provider.Error{Provider: "gemini", Err: fmt.Errorf("connection refused")},
		},
	}
	c := NewComposer(gen, ModelHandle{Identifier: "gemini-2.5-flash", Ready: true}, nil)

	got := c.Compose(context.Background(), "q", nil)

	assert.True(t, strings.HasPrefix(got, ErrorPrefix), "got %q", got)
	assert.Contains(t, got, "connection refused")
}

func TestCompose_ContextSnippetsAppearInPromptInOrder(t *testing.T) {
	gen := &fakeGeneration{results: map[string]string{"gemini-2.5-flash": "answer"}}
	c := NewComposer(gen, ModelHandle{Identifier: "gemini-2.5-flash", Ready: true}, nil)

	sctx := SearchContext{"alpha", "beta", "gamma"}
	c.Compose(context.Background(), "q", sctx)

	require.Len(t, gen.calls, 1)
	prompt := gen.calls[0].prompt
	ia := strings.Index(prompt, "alpha")
	ib := strings.Index(prompt, "beta")
	ig := strings.Index(prompt, "gamma")
	require.True(t, ia >= 0 && ib >= 0 && ig >= 0, "all snippets must appear in the prompt")
	assert.Less(t, ia, ib)
	assert.Less(t, ib, ig)
}

// Compose is total: any combination of handle state, context and provider
// behavior resolves to a non-empty displayable string.
func TestCompose_AlwaysReturnsNonEmptyString(t *testing.T) {
	cases := []struct {
		name   string
		gen    *fakeGeneration
		handle ModelHandle
	}{
		{"unready", &fakeGeneration{}, ModelHandle{}},
		{"error", &fakeGeneration{errs: map[string]error{"m": fmt.Errorf("x")}}, ModelHandle{Identifier: "m", Ready: true}},
		{"empty", &fakeGeneration{results: map[string]string{"m": ""}}, ModelHandle{Identifier: "m", Ready: true}},
		{"success", &fakeGeneration{results: map[string]string{"m": "text"}}, ModelHandle{Identifier: "m", Ready: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewComposer(tc.gen, tc.handle, nil)
			got := c.Compose(context.Background(), "query", nil)
			assert.NotEmpty(t, got)
		})
	}
}
