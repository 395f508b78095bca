package pipeline

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/jonathan/candidate-fit/internal/experience"
	"github.com/jonathan/candidate-fit/internal/parsing"
)

// ErrorKind classifies why a stage produced a degraded result
type ErrorKind string

// Error kinds
const (
	KindNone                ErrorKind = ""
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindMalformedInput      ErrorKind = "malformed_input"
	KindUnparseableDate     ErrorKind = "unparseable_date"
	KindStageException      ErrorKind = "stage_exception"
	KindFatalInput          ErrorKind = "fatal_input"
)

// ErrFatalInput is returned when neither a candidate nor a job was supplied
var ErrFatalInput = errors.New("fatal input: both candidate and job are empty")

// Result is one slot of the pipeline state. A degraded result still carries a
// well-formed value computed from fallbacks.
type Result[T any] struct {
	Value    *T        `json:"value,omitempty"`
	Degraded bool      `json:"degraded,omitempty"`
	Kind     ErrorKind `json:"error_kind,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Attempts int       `json:"attempts,omitempty"`
	Skipped  bool      `json:"skipped,omitempty"`
	Notes    []Note    `json:"notes,omitempty"`
}

// Note records a non-fatal problem a stage worked around
type Note struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Ok wraps a successful stage value
func Ok[T any](value *T, attempts int) *Result[T] {
	return &Result[T]{Value: value, Attempts: attempts}
}

// Provided wraps a value the caller supplied instead of a stage computing it
func Provided[T any](value *T) *Result[T] {
	return &Result[T]{Value: value, Skipped: true}
}

// Degrade wraps a fallback value together with the error that forced it
func Degrade[T any](value *T, err error, attempts int) *Result[T] {
	r := &Result[T]{Value: value, Degraded: true, Kind: Classify(err), Attempts: attempts}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// Filled reports whether the slot holds a value
func (r *Result[T]) Filled() bool {
	return r != nil && r.Value != nil
}

// Get returns the slot value or nil
func (r *Result[T]) Get() *T {
	if r == nil {
		return nil
	}
	return r.Value
}

// PanicError is a recovered panic inside a stage
type PanicError struct {
	Stage string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("stage %s panicked: %v", e.Stage, e.Value)
}

// Classify maps a stage error onto an ErrorKind
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		dateErr  *experience.UnparseableDateError
		panicErr *PanicError
		apiErr   *parsing.APICallError
		parseErr *parsing.ParseError
		valErr   *parsing.ValidationError
	)
	switch {
	case errors.Is(err, ErrFatalInput):
		return KindFatalInput
	case errors.As(err, &dateErr):
		return KindUnparseableDate
	case errors.As(err, &panicErr):
		return KindStageException
	case errors.As(err, &apiErr):
		return KindProviderUnavailable
	case errors.As(err, &parseErr), errors.As(err, &valErr):
		return KindMalformedInput
	default:
		return KindStageException
	}
}

// protect runs fn and converts a panic into a *PanicError
func protect(stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: stage, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
