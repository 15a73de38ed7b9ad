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

package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// TaskFileName is the descriptor looked up inside a directory.
const TaskFileName = "task.json"

// isPattern reports whether path contains glob metacharacters.
func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// ResolvePaths expands taskPath into the task.json files to validate.
//
// A directory resolves to its task.json and a glob to every match, with
// directory matches resolved the same way. Any other path is returned as-is
// so a missing file is reported by the validator with its own message.
func ResolvePaths(taskPath, missingMessage string) ([]string, error) {
	if !isPattern(taskPath) {
		return []string{resolveOne(taskPath)}, nil
	}

	pattern := filepath.ToSlash(taskPath)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", taskPath)
	}

	matches, err := doublestar.FilepathGlob(taskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", taskPath, err)
	}

	seen := make(map[string]bool, len(matches))
	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		resolved := resolveOne(match)
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		paths = append(paths, resolved)
	}

	if len(paths) == 0 {
		return nil, &tfxerrors.MissingFileError{
			Path:    taskPath,
			Message: fmt.Sprintf("%s (no files match %s)", missingMessage, taskPath),
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func resolveOne(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, TaskFileName)
	}
	return path
}
