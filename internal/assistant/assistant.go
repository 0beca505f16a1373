// Package assistant implements the query pipeline of the shopping assistant:
// classify the query, optionally ground it with web-search snippets, and
// compose an answer with the generation model selected at startup. Every path
// through the pipeline ends in a displayable string; provider failures are
// consumed at each stage and never surface as errors.
package assistant

import (
	"context"

	"go.uber.org/zap"

	"shopassist/internal/session"
)

// GreetingReply is the canned response for queries classified as greetings.
const GreetingReply = "👋 Hello there! I'm your AI Shopping Assistant. " +
	"I can help you compare products, find deals, or learn specs. " +
	"What would you like to explore today?"

// Assistant wires the classifier, augmenter and composer into one pipeline
// and records both sides of the conversation on the session transcript.
type Assistant struct {
	augmenter  *Augmenter
	composer   *Composer
	transcript *session.Transcript
	logger     *zap.Logger
}

// New creates an assistant for one interactive session.
func New(augmenter *Augmenter, composer *Composer, transcript *session.Transcript, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		augmenter:  augmenter,
		composer:   composer,
		transcript: transcript,
		logger:     logger,
	}
}

// Transcript returns the session transcript.
func (a *Assistant) Transcript() *session.Transcript { return a.transcript }

// Handle returns the model handle committed to at startup.
func (a *Assistant) Handle() ModelHandle { return a.composer.Handle() }

// Respond runs one query through the pipeline and returns the reply. The
// user turn and the assistant turn are appended to the transcript in order.
// Greetings short-circuit before any provider call; substantive queries are
// augmented (best effort) and composed.
func (a *Assistant) Respond(ctx context.Context, raw string) string {
	a.transcript.Append(session.Turn{Role: session.RoleUser, Content: raw})

	var reply string
	if Classify(raw) == KindGreeting {
		reply = GreetingReply
	} else {
		sctx := a.augmenter.Augment(ctx, raw)
		reply = a.composer.Compose(ctx, raw, sctx)
	}

	a.transcript.Append(session.Turn{Role: session.RoleAssistant, Content: reply})
	a.logger.Debug("query handled",
		zap.Int("transcript_len", a.transcript.Len()),
		zap.Int("reply_len", len(reply)))
	return reply
}
