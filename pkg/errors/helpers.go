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

import "errors"

// AsUserVisible returns the first error in err's chain that wants to be shown
// to users.
func AsUserVisible(err error) (UserVisibleError, bool) {
	var userErr UserVisibleError
	if errors.As(err, &userErr) && userErr.IsUserVisible() {
		return userErr, true
	}
	return nil, false
}

// SuggestionOf returns the suggestion carried by err's chain, or "".
func SuggestionOf(err error) string {
	if userErr, ok := AsUserVisible(err); ok {
		return userErr.Suggestion()
	}
	return ""
}

// PathOf returns the task file an error refers to, or "" when it is not
// about a file.
func PathOf(err error) string {
	var fileErr *MissingFileError
	if errors.As(err, &fileErr) {
		return fileErr.Path
	}
	var taskErr *TaskValidationError
	if errors.As(err, &taskErr) {
		return taskErr.Path
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Path
	}
	return ""
}
