package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shopassist/internal/provider"
)

// ModelHandle is the generation model committed to for the process lifetime.
// Written once by SelectModel before the first generation call and read-only
// afterwards. When Ready is false the identifier is empty and every
// composition takes the fallback path.
type ModelHandle struct {
	Identifier string
	Ready      bool
}

// DefaultModelCandidates is the priority-ordered probe list.
var DefaultModelCandidates = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-flash-latest",
	"gemini-pro-latest",
}

const (
	probePrompt    = "hello"
	probeMaxTokens = 5
	probeTimeout   = 15 * time.Second
)

// SelectModel probes the candidate identifiers in order with a minimal
// generation request and commits to the first one that returns non-empty
// text. Probe failures are swallowed and treated as "candidate failed"; if
// every candidate fails the handle is not ready. Selection runs once per
// process and is never re-triggered by later generation failures.
func SelectModel(ctx context.Context, client provider.GenerationClient, candidates []string, logger *zap.Logger) ModelHandle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(candidates) == 0 {
		candidates = DefaultModelCandidates
	}

	for _, candidate := range candidates {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		text, err := client.Generate(probeCtx, candidate, probePrompt, provider.GenerationParams{
			MaxOutputTokens: probeMaxTokens,
		})
		cancel()
		if err != nil {
			logger.Debug("model probe failed",
				zap.String("model", candidate),
				zap.Error(err))
			continue
		}
		if text == "" {
			logger.Debug("model probe returned no text", zap.String("model", candidate))
			continue
		}
		logger.Info("model selected", zap.String("model", candidate))
		return ModelHandle{Identifier: candidate, Ready: true}
	}

	logger.Warn("no generation model available, running in fallback mode")
	return ModelHandle{}
}
