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

package shared

import (
	"errors"
	"fmt"
	"io"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// Exit codes for tfx commands
const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitInvalidTask     = 2
	ExitMissingArgument = 3
	ExitMissingFile     = 4
	ExitConfigError     = 5
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewInvalidTaskError creates an error for task descriptors that fail validation
func NewInvalidTaskError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidTask,
		Message: msg,
		Cause:   cause,
	}
}

// NewConfigError creates an error for configuration and credential failures
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfigError,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCode maps err to the process exit code. An ExitError anywhere in the
// chain wins; otherwise the typed errors of pkg/errors decide.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		taskErr  *tfxerrors.TaskValidationError
		parseErr *tfxerrors.ParseError
		argErr   *tfxerrors.MissingArgumentError
		fileErr  *tfxerrors.MissingFileError
		cfgErr   *tfxerrors.ConfigError
	)
	switch {
	case errors.As(err, &taskErr), errors.As(err, &parseErr):
		return ExitInvalidTask
	case errors.As(err, &argErr):
		return ExitMissingArgument
	case errors.As(err, &fileErr):
		return ExitMissingFile
	case errors.As(err, &cfgErr):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// ReportError writes "Error: <message>" and any suggestion to w and returns
// the exit code for err.
func ReportError(w io.Writer, err error) int {
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, "Error:", msg)
	}
	if suggestion := tfxerrors.SuggestionOf(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
	return ExitCode(err)
}

