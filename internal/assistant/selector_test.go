package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectModel_FirstSuccessWins(t *testing.T) {
	gen := &fakeGeneration{
		results: map[string]string{
			"gemini-2.5-pro":      "ok",
			"gemini-flash-latest": "ok",
		},
	}

	handle := SelectModel(context.Background(), gen, DefaultModelCandidates, nil)

	require.True(t, handle.Ready)
	assert.Equal(t, "gemini-2.5-pro", handle.Identifier)
	// Iteration short-circuits: the third and fourth candidates are never probed.
	require.Len(t, gen.calls, 2)
	assert.Equal(t, "gemini-2.5-flash", gen.calls[0].model)
	assert.Equal(t, "gemini-2.5-pro", gen.calls[1].model)
}

func TestSelectModel_AllCandidatesFail(t *testing.T) {
	gen := &fakeGeneration{}

	handle := SelectModel(context.Background(), gen, DefaultModelCandidates, nil)

	assert.False(t, handle.Ready)
	assert.Empty(t, handle.Identifier)
	assert.Len(t, gen.calls, len(DefaultModelCandidates))
}

func TestSelectModel_EmptyProbeTextIsFailure(t *testing.T) {
	gen := &fakeGeneration{
		results: map[string]string{
			"gemini-2.5-flash": "",
			"gemini-2.5-pro":   "hello",
		},
	}

	handle := SelectModel(context.Background(), gen, DefaultModelCandidates, nil)

	require.True(t, handle.Ready)
	assert.Equal(t, "gemini-2.5-pro", handle.Identifier)
}

func TestSelectModel_DefaultsCandidateList(t *testing.T) {
	gen := &fakeGeneration{}

	SelectModel(context.Background(), gen, nil, nil)

	assert.Len(t, gen.calls, len(DefaultModelCandidates))
}
