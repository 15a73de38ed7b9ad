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

package taskjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// DefaultMissingMessage is reported when Validate is given no message of its own.
const DefaultMissingMessage = "specified json file does not exist."

// MaxFriendlyNameLength is the longest friendlyName accepted, in characters.
const MaxFriendlyNameLength = 40

// errNotObject is the parse cause reported for valid JSON that is not an object.
var errNotObject = errors.New("top-level value must be a JSON object")

// Validate loads the task descriptor at path and checks it with ValidateTask.
// missingMessage is returned when the file does not exist; an empty value
// selects DefaultMissingMessage.
func Validate(path, missingMessage string) (TaskDescriptor, error) {
	task, issues, err := ValidateFile(path, missingMessage)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &tfxerrors.TaskValidationError{Path: path, Issues: issues}
	}
	return task, nil
}

// ValidateFile is Validate without issue aggregation: field problems come back
// as the issue list and err is only set for missing or unparseable files.
func ValidateFile(path, missingMessage string) (TaskDescriptor, []string, error) {
	if missingMessage == "" {
		missingMessage = DefaultMissingMessage
	}
	if err := Exists(path, missingMessage); err != nil {
		return nil, nil, err
	}

	task, err := load(path)
	if err != nil {
		return nil, nil, err
	}

	return task, ValidateTask(path, task), nil
}

// Exists returns a MissingFileError carrying errorMessage when path is absent.
func Exists(path, errorMessage string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &tfxerrors.MissingFileError{Path: path, Message: errorMessage}
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return nil
}

// ValidateTask checks every required field of a parsed descriptor and returns
// one message per failed check, in field order. It does not modify data.
func ValidateTask(path string, data TaskDescriptor) []string {
	vn := data.label(path)
	var issues []string

	if !isUUID(data[FieldID]) {
		issues = append(issues, vn+": id is a required guid")
	}

	if !isAlphanumeric(data[FieldName]) {
		issues = append(issues, vn+": name is a required alphanumeric string")
	}

	if !isLength(data[FieldFriendlyName], 1, MaxFriendlyNameLength) {
		issues = append(issues, fmt.Sprintf("%s: friendlyName is a required string <= %d chars", vn, MaxFriendlyNameLength))
	}

	if !truthy(data[FieldInstanceNameFormat]) {
		issues = append(issues, vn+": instanceNameFormat is required")
	}

	return issues
}

func load(path string) (TaskDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task json: %w", err)
	}

	// Strip a UTF-8 BOM; editors on Windows like to write one into task.json.
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &tfxerrors.ParseError{Path: path, Cause: err}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &tfxerrors.ParseError{Path: path, Cause: errNotObject}
	}
	return TaskDescriptor(obj), nil
}

// isUUID accepts only the hyphenated 36-character form. uuid.Parse alone would
// also accept urn: and braced variants.
func isUUID(v any) bool {
	s, ok := v.(string)
	if !ok || len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isAlphanumeric(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

func isLength(v any, min, max int) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
