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

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// Error codes for JSON output
const (
	// Validation errors (E001-E099)
	ErrorCodeInvalidTask = "E001" // Task descriptor failed validation
	ErrorCodeInvalidJSON = "E002" // Task descriptor is not valid JSON

	// Configuration errors (E200-E299)
	ErrorCodeInvalidConfig = "E202" // Invalid configuration or credentials

	// Input errors (E300-E399)
	ErrorCodeMissingArgument = "E301" // Required argument missing
	ErrorCodeFileNotFound    = "E303" // File not found

	// Execution errors (E400-E499)
	ErrorCodeTimeout         = "E402" // Operation timed out
	ErrorCodeExecutionFailed = "E403" // Execution failed
)

// ErrorCode returns the JSON error code for err.
func ErrorCode(err error) string {
	var parseErr *tfxerrors.ParseError
	if errors.As(err, &parseErr) {
		return ErrorCodeInvalidJSON
	}
	var timeoutErr *tfxerrors.TimeoutError
	if errors.As(err, &timeoutErr) {
		return ErrorCodeTimeout
	}

	switch ExitCode(err) {
	case ExitInvalidTask:
		return ErrorCodeInvalidTask
	case ExitMissingArgument:
		return ErrorCodeMissingArgument
	case ExitMissingFile:
		return ErrorCodeFileNotFound
	case ExitConfigError:
		return ErrorCodeInvalidConfig
	default:
		return ErrorCodeExecutionFailed
	}
}
