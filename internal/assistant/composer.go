package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shopassist/internal/provider"
)

// Fixed user-visible strings. Every path out of Compose resolves to one of
// these or to the generated text itself.
const (
	FallbackMessage = "I'm currently running in fallback mode — " +
		"please check the Gemini API key or internet connection."
	NoResponseMessage = "⚠️ Gemini returned no response."
	ErrorPrefix       = "⚠️ Error connecting to Gemini API: "
)

// Sampling parameters for answer generation. Policy constants, not user
// configuration.
var answerParams = provider.GenerationParams{
	Temperature:     0.7,
	TopP:            0.9,
	TopK:            40,
	MaxOutputTokens: 2048,
}

const promptTemplate = `You are a friendly, expert AI shopping assistant.

User asked: "%s"

Use your own knowledge and optionally the following info if useful:
%s

Your task:
- Provide a detailed, natural, and conversational answer.
- Include technical details and comparisons where relevant.
- Write like an expert human reviewer.
- Structure the response with headers, bullet points, and a clear conclusion.
- Avoid saying "here's what I found"; just answer directly.
- Be friendly and professional.
`

// Composer builds the generation request for a substantive query and turns
// the provider outcome into a displayable answer.
type Composer struct {
	generation provider.GenerationClient
	handle     ModelHandle
	logger     *zap.Logger
}

// NewComposer creates a composer bound to the model handle chosen at startup.
func NewComposer(generation provider.GenerationClient, handle ModelHandle, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{generation: generation, handle: handle, logger: logger}
}

// Handle returns the model handle the composer was built with.
func (c *Composer) Handle() ModelHandle { return c.handle }

// BuildPrompt embeds the verbatim query and the joined context snippets into
// the instruction template. Exposed for the pipeline tests that assert
// snippet ordering.
func BuildPrompt(query string, sctx SearchContext) string {
	return fmt.Sprintf(promptTemplate, query, strings.Join(sctx, "\n"))
}

// Compose returns a displayable answer for any input and any provider state:
// fallback message when no model is ready, the generated text when the call
// succeeds, a fixed message when the provider returns nothing, and an
// error-prefixed message when the call fails. It never returns an error and
// never lets a provider failure escape.
func (c *Composer) Compose(ctx context.Context, query string, sctx SearchContext) string {
	if !c.handle.Ready || c.generation == nil {
		return FallbackMessage
	}

	prompt := BuildPrompt(query, sctx)
	text, err := c.generation.Generate(ctx, c.handle.Identifier, prompt, answerParams)
	if err != nil {
		c.logger.Warn("generation failed",
			zap.String("model", c.handle.Identifier),
			zap.Error(err))
		return ErrorPrefix + err.Error()
	}
	if text == "" {
		return NoResponseMessage
	}
	return text
}
