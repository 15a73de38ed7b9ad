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

package errors

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents user input validation failures.
// Use this for invalid user input, malformed data, or constraint violations.
type ValidationError struct {
	// Field identifies which input field failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a resource not found error.
// Use this when a requested resource does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "task", "credential")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents configuration problems.
// Use this for configuration file errors, missing settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "service.url")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents operation timeouts.
type TimeoutError struct {
	// Operation describes what timed out (e.g., "jq filter")
	Operation string

	// Duration is how long the operation ran before timing out
	Duration time.Duration

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s operation timed out after %v", e.Operation, e.Duration)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// MissingFileError is returned when a path that must exist on disk does not.
// Message is shown to the user verbatim.
type MissingFileError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return e.Message
}

// IsUserVisible implements UserVisibleError.
func (e *MissingFileError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *MissingFileError) UserMessage() string { return e.Message }

// Suggestion implements UserVisibleError.
func (e *MissingFileError) Suggestion() string {
	if e.Path == "" {
		return ""
	}
	return fmt.Sprintf("Check that %s exists and is readable", e.Path)
}

// ParseError is returned when a file cannot be decoded.
type ParseError struct {
	// Path is the file that failed to parse
	Path string

	// Cause is the decoder error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("Invalid task json: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TaskValidationError aggregates every issue found in a task descriptor.
type TaskValidationError struct {
	Path   string
	Issues []string
}

// Error implements the error interface. Each issue is on its own tab-indented line.
func (e *TaskValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("Invalid task json:")
	for _, issue := range e.Issues {
		sb.WriteString("\n\t")
		sb.WriteString(issue)
	}
	return sb.String()
}

// IsUserVisible implements UserVisibleError.
func (e *TaskValidationError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *TaskValidationError) UserMessage() string { return e.Error() }

// Suggestion implements UserVisibleError.
func (e *TaskValidationError) Suggestion() string {
	return "Fix the listed fields in the task json and run validate again"
}

// MissingArgumentError is returned when a required command argument could not be
// resolved from positional tokens, named options or a declared default.
type MissingArgumentError struct {
	// Name is the canonical argument name
	Name string

	// FriendlyName is the argument's display label
	FriendlyName string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Required parameter %s not supplied. Try adding a switch to the end of your command: %s",
		e.Name, e.Usage())
}

// Usage returns the named-switch form of the argument, e.g. "--name <Friendly>".
func (e *MissingArgumentError) Usage() string {
	return fmt.Sprintf("--%s <%s>", e.Name, e.FriendlyName)
}

// IsUserVisible implements UserVisibleError.
func (e *MissingArgumentError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *MissingArgumentError) UserMessage() string { return e.Error() }

// Suggestion implements UserVisibleError.
func (e *MissingArgumentError) Suggestion() string {
	return "Run the command with --help to see its arguments"
}
