package judgment

import (
	"context"
	"sync/atomic"
)

// Static is a deterministic Provider that always returns the same answer.
// It is used in tests and when no model is configured.
type Static struct {
	Response Response
	Err      error

	calls atomic.Int64
}

// Judge implements Provider
func (s *Static) Judge(ctx context.Context, _ Request) (Response, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if s.Err != nil {
		return Response{}, s.Err
	}
	return s.Response, nil
}

// Calls returns how many times Judge was invoked
func (s *Static) Calls() int {
	return int(s.calls.Load())
}

// Func adapts a function to the Provider interface
type Func func(ctx context.Context, req Request) (Response, error)

// Judge implements Provider
func (f Func) Judge(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

var (
	_ Provider = (*Static)(nil)
	_ Provider = (*LLMProvider)(nil)
	_ Provider = Func(nil)
)
