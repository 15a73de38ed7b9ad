// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		envVars    map[string]string
		wantLevel  string
		wantFormat Format
		wantSource bool
	}{
		{
			name:       "defaults when no env vars",
			wantLevel:  "warn",
			wantFormat: FormatText,
		},
		{
			name:       "LOG_LEVEL=DEBUG (case insensitive)",
			envVars:    map[string]string{"LOG_LEVEL": "DEBUG"},
			wantLevel:  "debug",
			wantFormat: FormatText,
		},
		{
			name:       "TFX_LOG_LEVEL wins over LOG_LEVEL",
			envVars:    map[string]string{"TFX_LOG_LEVEL": "trace", "LOG_LEVEL": "error"},
			wantLevel:  "trace",
			wantFormat: FormatText,
		},
		{
			name:       "TFX_DEBUG enables debug and source",
			envVars:    map[string]string{"TFX_DEBUG": "1", "TFX_LOG_LEVEL": "error"},
			wantLevel:  "debug",
			wantFormat: FormatText,
			wantSource: true,
		},
		{
			name:       "LOG_FORMAT and LOG_SOURCE",
			envVars:    map[string]string{"LOG_FORMAT": "JSON", "LOG_SOURCE": "1"},
			wantLevel:  "warn",
			wantFormat: FormatJSON,
			wantSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"TFX_DEBUG", "TFX_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := FromEnv()
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantSource, cfg.AddSource)
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	logger.Info("validated task", TaskPathKey, "MyTask/task.json")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validated task", entry["msg"])
	assert.Equal(t, "MyTask/task.json", entry[TaskPathKey])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})
	logger.Info("hello", "key", "value")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
		{"", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer

	quiet := New(&Config{Level: "debug", Format: FormatText, Output: &buf})
	Trace(quiet, "Missing required parameter x")
	assert.Empty(t, buf.String())

	loud := New(&Config{Level: "trace", Format: FormatText, Output: &buf})
	Trace(loud, "Missing required parameter x", slog.String(ArgumentKey, "x"))
	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "argument=x")
}

func TestWithCommand(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(WithCommand(New(&Config{Level: "info", Format: FormatText, Output: &buf}), "validate"), "binder")
	logger.Info("bound")

	out := buf.String()
	assert.True(t, strings.Contains(out, "command=validate"))
	assert.True(t, strings.Contains(out, "component=binder"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "[REDACTED]", SanitizeToken("abcd"))
	assert.Equal(t, "...wxyz", SanitizeToken("pat-0123456789wxyz"))
}
