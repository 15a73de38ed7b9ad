// Package jq filters command output with jq expressions.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

const (
	// DefaultTimeout bounds a single filter run.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize is the largest encoded input accepted (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Executor compiles and runs jq expressions against JSON-shaped values.
type Executor struct {
	timeout      time.Duration
	maxInputSize int64
}

// NewExecutor returns an Executor. Zero values select the defaults.
func NewExecutor(timeout time.Duration, maxInputSize int64) *Executor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	return &Executor{
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}
}

// Execute runs expression over data. data may be any value encoding/json can
// marshal; it is normalized to maps, slices and float64 before filtering.
// A single result is returned as-is, several results as a slice.
func (e *Executor) Execute(ctx context.Context, expression string, data any) (any, error) {
	if expression == "" {
		return data, nil
	}

	input, err := e.normalize(data)
	if err != nil {
		return nil, err
	}

	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		iter := code.RunWithContext(execCtx, input)

		var results []any
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				done <- outcome{err: err}
				return
			}
			results = append(results, v)
		}

		switch len(results) {
		case 0:
			done <- outcome{}
		case 1:
			done <- outcome{value: results[0]}
		default:
			done <- outcome{value: results}
		}
	}()

	select {
	case out := <-done:
		if out.err != nil && execCtx.Err() != nil {
			return nil, &tfxerrors.TimeoutError{Operation: "jq filter", Duration: e.timeout}
		}
		return out.value, out.err
	case <-execCtx.Done():
		return nil, &tfxerrors.TimeoutError{Operation: "jq filter", Duration: e.timeout}
	}
}

// Validate reports whether expression parses and compiles.
func (e *Executor) Validate(expression string) error {
	if expression == "" {
		return nil
	}
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	return code, nil
}

// normalize round-trips data through JSON so gojq only sees the types it
// understands, enforcing the size limit on the way.
func (e *Executor) normalize(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}

	if int64(len(encoded)) > e.maxInputSize {
		return nil, fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)",
			len(encoded), e.maxInputSize)
	}

	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}
