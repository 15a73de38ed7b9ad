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

// Package taskjson validates build task descriptors (task.json files).
//
// A descriptor is checked against a minimal schema: a GUID id, an alphanumeric
// name, a friendly name of at most 40 characters and an instance name format.
// Every field is checked on each pass so a user sees all problems at once:
//
//	task, err := taskjson.Validate("MyTask/task.json", "")
//	if err != nil {
//	    return err // *errors.MissingFileError, *errors.ParseError or *errors.TaskValidationError
//	}
//	fmt.Println(task.Name())
package taskjson
