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

// Package errors defines the typed errors shared by tfx commands.
//
// Each kind maps to one process exit code (see internal/commands/shared) and
// to one error code in the JSON envelope.
package errors

// UserVisibleError is implemented by errors whose message is meant for the
// person at the terminal. ReportError prints the message followed by the
// suggestion, and the JSON envelope carries both.
type UserVisibleError interface {
	error

	// IsUserVisible reports whether the message should reach users as is.
	IsUserVisible() bool

	// UserMessage is the text printed after "Error:".
	UserMessage() string

	// Suggestion names the next step, or is empty.
	Suggestion() string
}
