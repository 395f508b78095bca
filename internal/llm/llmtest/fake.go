// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/candidate-fit/internal/llm"
)

// ErrUnavailable is returned by Fake when no handler matches a prompt
var ErrUnavailable = errors.New("llmtest: model unavailable")

// Fake is an llm.Client that answers prompts from a handler function.
// It records every prompt it receives.
type Fake struct {
	// Handler produces the response for a prompt. A nil Handler fails every call.
	Handler func(prompt string, tier llm.ModelTier) (string, error)

	mu      sync.Mutex
	prompts []string
	closed  bool
}

// Returning builds a Fake that always answers with text
func Returning(text string) *Fake {
	return &Fake{Handler: func(string, llm.ModelTier) (string, error) { return text, nil }}
}

// Failing builds a Fake that always fails with err
func Failing(err error) *Fake {
	return &Fake{Handler: func(string, llm.ModelTier) (string, error) { return "", err }}
}

// ByPrompt builds a Fake that answers with the first response whose key occurs in the prompt.
// Keys are checked in the order given by keys.
func ByPrompt(keys []string, responses map[string]string) *Fake {
	return &Fake{Handler: func(prompt string, _ llm.ModelTier) (string, error) {
		for _, key := range keys {
			if strings.Contains(prompt, key) {
				return responses[key], nil
			}
		}
		return "", ErrUnavailable
	}}
}

// GenerateJSON implements llm.Client
func (f *Fake) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	text, err := f.call(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(text), nil
}

// GetModel implements llm.Client
func (f *Fake) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close implements llm.Client
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Prompts returns a copy of every prompt received so far
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls returns the number of calls received so far
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) call(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	handler := f.Handler
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if handler == nil {
		return "", ErrUnavailable
	}
	return handler(prompt, tier)
}

var _ llm.Client = (*Fake)(nil)
