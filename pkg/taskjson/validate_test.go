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
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

const testUUID = "9f8a6a7c-5b5e-4d3c-8f5e-2f1c0b7d3a11"

func validTask() TaskDescriptor {
	return TaskDescriptor{
		"id":                 testUUID,
		"name":               "Build1",
		"friendlyName":       "Build One",
		"instanceNameFormat": "f",
	}
}

func writeTask(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, "task.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidateTask_Valid(t *testing.T) {
	assert.Empty(t, ValidateTask("task.json", validTask()))
}

func TestValidateTask_MissingID(t *testing.T) {
	task := validTask()
	delete(task, "id")

	issues := ValidateTask("task.json", task)
	require.Len(t, issues, 1)
	assert.Equal(t, "Build1: id is a required guid", issues[0])
}

func TestValidateTask_IssuesAreAdditive(t *testing.T) {
	fields := []string{FieldID, FieldName, FieldFriendlyName, FieldInstanceNameFormat}

	// every subset of the four fields
	for mask := 0; mask < 1<<len(fields); mask++ {
		task := validTask()
		omitted := 0
		var names []string
		for i, f := range fields {
			if mask&(1<<i) != 0 {
				delete(task, f)
				omitted++
				names = append(names, f)
			}
		}

		t.Run("omit_"+strings.Join(names, "_"), func(t *testing.T) {
			issues := ValidateTask("some/task.json", task)
			assert.Len(t, issues, omitted)
		})
	}
}

func TestValidateTask_OrderAndLabel(t *testing.T) {
	issues := ValidateTask("tasks/Foo/task.json", TaskDescriptor{})
	assert.Equal(t, []string{
		"tasks/Foo/task.json: id is a required guid",
		"tasks/Foo/task.json: name is a required alphanumeric string",
		"tasks/Foo/task.json: friendlyName is a required string <= 40 chars",
		"tasks/Foo/task.json: instanceNameFormat is required",
	}, issues)
}

func TestValidateTask_FieldRules(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     any
		wantIssue bool
	}{
		{"uuid uppercase", FieldID, strings.ToUpper(testUUID), false},
		{"uuid not a guid", FieldID, "not-a-guid", true},
		{"uuid braced", FieldID, "{" + testUUID + "}", true},
		{"uuid urn", FieldID, "urn:uuid:" + testUUID, true},
		{"uuid number", FieldID, 42.0, true},
		{"name with dash", FieldName, "Build-1", true},
		{"name with space", FieldName, "Build 1", true},
		{"name unicode letters", FieldName, "Bäuen", true},
		{"name digits", FieldName, "123", false},
		{"name non string", FieldName, true, true},
		{"name number", FieldName, 123.0, true},
		{"friendlyName 40 chars", FieldFriendlyName, strings.Repeat("a", 40), false},
		{"friendlyName 41 chars", FieldFriendlyName, strings.Repeat("a", 41), true},
		{"friendlyName multibyte 40 runes", FieldFriendlyName, strings.Repeat("é", 40), false},
		{"friendlyName empty", FieldFriendlyName, "", true},
		{"friendlyName non string", FieldFriendlyName, 12.0, true},
		{"instanceNameFormat false", FieldInstanceNameFormat, false, true},
		{"instanceNameFormat zero", FieldInstanceNameFormat, 0.0, true},
		{"instanceNameFormat empty", FieldInstanceNameFormat, "", true},
		{"instanceNameFormat null", FieldInstanceNameFormat, nil, true},
		{"instanceNameFormat object", FieldInstanceNameFormat, map[string]any{}, false},
		{"instanceNameFormat number", FieldInstanceNameFormat, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			task[tt.field] = tt.value
			issues := ValidateTask("task.json", task)
			if tt.wantIssue {
				require.Len(t, issues, 1)
				assert.Contains(t, issues[0], tt.field)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestValidateTask_DoesNotMutate(t *testing.T) {
	task := TaskDescriptor{"name": "Bad Name", "extra": []any{"x"}}
	before, err := json.Marshal(task)
	require.NoError(t, err)

	_ = ValidateTask("task.json", task)

	after, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestValidateTask_LabelFallsBackToPath(t *testing.T) {
	task := validTask()
	task["name"] = ""
	issues := ValidateTask("x/task.json", task)
	require.Len(t, issues, 1)
	assert.True(t, strings.HasPrefix(issues[0], "x/task.json: "))
}

func TestValidate_Success(t *testing.T) {
	path := writeTask(t, t.TempDir(), map[string]any{
		"id":                 testUUID,
		"name":               "Build1",
		"friendlyName":       "Build One",
		"instanceNameFormat": "f",
		"inputs":             []any{},
	})

	task, err := Validate(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Build1", task.Name())
	assert.Equal(t, testUUID, task.ID())
	assert.Equal(t, "Build One", task.FriendlyName())
	assert.Contains(t, task, "inputs")
}

func TestValidate_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "task.json")

	t.Run("default message", func(t *testing.T) {
		_, err := Validate(missing, "")
		var missingErr *tfxerrors.MissingFileError
		require.True(t, errors.As(err, &missingErr))
		assert.EqualError(t, err, DefaultMissingMessage)
		assert.Equal(t, missing, missingErr.Path)
	})

	t.Run("caller message", func(t *testing.T) {
		_, err := Validate(missing, "no task.json in this directory")
		assert.EqualError(t, err, "no task.json in this directory")
	})
}

func TestValidate_ParseError(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"id": `},
		{"array", `[1, 2]`},
		{"string", `"task"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Validate(path, "")
			var parseErr *tfxerrors.ParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.True(t, strings.HasPrefix(err.Error(), "Invalid task json: "))
			assert.NotNil(t, parseErr.Unwrap())
		})
	}
}

func TestValidate_AggregatesIssues(t *testing.T) {
	path := writeTask(t, t.TempDir(), map[string]any{"name": "Build1"})

	_, err := Validate(path, "")
	var valErr *tfxerrors.TaskValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Len(t, valErr.Issues, 3)
	assert.Equal(t,
		"Invalid task json:\n\tBuild1: id is a required guid\n\tBuild1: friendlyName is a required string <= 40 chars\n\tBuild1: instanceNameFormat is required",
		err.Error())
}

func TestValidate_ByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.json")
	body := `{"id":"` + testUUID + `","name":"Build1","friendlyName":"Build One","instanceNameFormat":"f"}`
	require.NoError(t, os.WriteFile(path, append([]byte("\xef\xbb\xbf"), body...), 0o644))

	_, err := Validate(path, "")
	assert.NoError(t, err)
}

func TestValidateFile_ReturnsIssues(t *testing.T) {
	path := writeTask(t, t.TempDir(), map[string]any{"id": testUUID})

	task, issues, err := ValidateFile(path, "")
	require.NoError(t, err)
	assert.NotNil(t, task)
	assert.Len(t, issues, 3)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Exists(dir, "unused"))

	err := Exists(filepath.Join(dir, "missing"), "custom message")
	assert.EqualError(t, err, "custom message")
}
