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

import "fmt"

// Field names checked by ValidateTask, in the order they are reported.
const (
	FieldID                 = "id"
	FieldName               = "name"
	FieldFriendlyName       = "friendlyName"
	FieldInstanceNameFormat = "instanceNameFormat"
)

// TaskDescriptor is a parsed task.json. It is kept untyped so fields the
// validator does not know about survive a validate pass unchanged.
type TaskDescriptor map[string]any

// ID returns the id field when it is a string.
func (t TaskDescriptor) ID() string {
	return t.str(FieldID)
}

// Name returns the name field when it is a string.
func (t TaskDescriptor) Name() string {
	return t.str(FieldName)
}

// FriendlyName returns the friendlyName field when it is a string.
func (t TaskDescriptor) FriendlyName() string {
	return t.str(FieldFriendlyName)
}

func (t TaskDescriptor) str(key string) string {
	s, _ := t[key].(string)
	return s
}

// label is what issues are prefixed with: the descriptor's own name when it
// has one, the file path otherwise.
func (t TaskDescriptor) label(path string) string {
	if v := t[FieldName]; truthy(v) {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return path
}

// truthy reports whether a decoded JSON value counts as "present".
// Absent, null, false, zero and the empty string do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
