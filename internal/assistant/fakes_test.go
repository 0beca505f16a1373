package assistant

import (
	"context"
	"fmt"

	"shopassist/internal/provider"
)

// fakeGeneration scripts Generate outcomes per model identifier and records
// every call.
type fakeGeneration struct {
	// results maps model identifier to the text returned; absent models fail.
	results map[string]string
	// errs maps model identifier to a forced error.
	errs map[string]error
	// calls records (model, prompt) pairs in order.
	calls []generationCall
}

type generationCall struct {
	model  string
	prompt string
}

func (f *fakeGeneration) Generate(_ context.Context, model, prompt string, _ provider.GenerationParams) (string, error) {
	f.calls = append(f.calls, generationCall{model: model, prompt: prompt})
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	if text, ok := f.results[model]; ok {
		return text, nil
	}
	return "", &provider.Error{Provider: "gemini", Status: 404, Err: fmt.Errorf("model not found")}
}

// fakeSearch scripts one search response or error and records calls.
type fakeSearch struct {
	resp  *provider.SearchResponse
	err   error
	calls int
}

func (f *fakeSearch) Search(_ context.Context, _ string, _ int) (*provider.SearchResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}
