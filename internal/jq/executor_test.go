package jq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

type validateResult struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		data       any
		want       any
		wantErr    bool
	}{
		{
			name:       "empty expression returns data as-is",
			expression: "",
			data:       map[string]string{"foo": "bar"},
			want:       map[string]string{"foo": "bar"},
		},
		{
			name:       "simple field extraction",
			expression: ".foo",
			data:       map[string]any{"foo": "bar"},
			want:       "bar",
		},
		{
			name:       "string map is normalized",
			expression: ".name",
			data:       map[string]string{"name": "Build1"},
			want:       "Build1",
		},
		{
			name:       "structs are normalized",
			expression: "[.[] | select(.valid | not) | .path]",
			data: []validateResult{
				{Path: "a/task.json", Valid: true},
				{Path: "b/task.json", Issues: []string{"b: id is a required guid"}},
			},
			want: []any{"b/task.json"},
		},
		{
			name:       "multiple results become a slice",
			expression: ".[]",
			data:       []int{1, 2},
			want:       []any{float64(1), float64(2)},
		},
		{
			name:       "no results",
			expression: "empty",
			data:       1,
			want:       nil,
		},
		{
			name:       "invalid expression",
			expression: ".[",
			data:       map[string]any{"foo": "bar"},
			wantErr:    true,
		},
		{
			name:       "runtime error",
			expression: ".foo",
			data:       []any{1},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewExecutor(DefaultTimeout, DefaultMaxInputSize)
			got, err := executor.Execute(context.Background(), tt.expression, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutor_Validate(t *testing.T) {
	executor := NewExecutor(0, 0)

	assert.NoError(t, executor.Validate(""))
	assert.NoError(t, executor.Validate(".foo"))
	assert.Error(t, executor.Validate(".["))
}

func TestExecutor_InputTooLarge(t *testing.T) {
	executor := NewExecutor(DefaultTimeout, 8)

	_, err := executor.Execute(context.Background(), ".", "this string is too long")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestExecutor_Timeout(t *testing.T) {
	executor := NewExecutor(100*time.Millisecond, DefaultMaxInputSize)

	_, err := executor.Execute(context.Background(), "def f: f; f", 0)
	require.Error(t, err)

	var timeoutErr *tfxerrors.TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}
