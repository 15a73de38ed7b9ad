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

// Package validate implements "tfx validate".
package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/log"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
	"github.com/tombee/tfx/pkg/taskjson"
)

// Argument names
const (
	ArgTaskPath       = "taskPath"
	ArgMissingMessage = "missingMessage"
	FlagWatch         = "watch"
)

// FileResult is the outcome for one task.json.
type FileResult struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Issues []string `json:"issues,omitempty"`
	Error  string   `json:"error,omitempty"`

	err error
}

// Result is the outcome of a validate run.
type Result struct {
	Files   []FileResult `json:"files"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
}

// FirstError returns the error of the first failing file, or nil.
func (r *Result) FirstError() error {
	for _, f := range r.Files {
		if f.err != nil {
			return f.err
		}
	}
	return nil
}

// Command validates task descriptors.
type Command struct {
	command.Base

	// Debounce is the quiet period before re-validating in watch mode.
	Debounce time.Duration

	// MaxRunsPerMinute caps re-validation in watch mode. Zero disables the cap.
	MaxRunsPerMinute int

	out io.Writer
}

// New returns the validate command.
func New() *Command {
	return &Command{
		Base: command.Base{
			RequiredArguments: []command.Argument{
				{Name: ArgTaskPath, FriendlyName: "Task Path"},
			},
			OptionalArguments: []command.Argument{
				{Name: ArgMissingMessage, FriendlyName: "Missing File Message"},
			},
			Flags: []command.Argument{
				{Name: FlagWatch, FriendlyName: "Re-validate when files change"},
			},
		},
		Debounce:         200 * time.Millisecond,
		MaxRunsPerMinute: 120,
		out:              os.Stdout,
	}
}

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	cmd := New()
	c := command.NewCobraCommand(command.Spec{
		Name:  "validate",
		Short: "Validate task.json descriptors",
		Long: `Validate checks that a task descriptor has a guid id, an alphanumeric
name, a friendlyName of at most 40 characters and an instanceNameFormat.

The path may be a task.json file, a directory containing one, or a glob
such as "tasks/**/task.json". Every match is checked and all issues of a
file are reported together.`,
		Example: `  # Validate a single task
  tfx validate ./BuildTask/task.json

  # Validate the task.json inside a directory
  tfx validate ./BuildTask

  # Validate every task in a repository
  tfx validate 'tasks/**/task.json'

  # Keep validating while editing
  tfx validate ./BuildTask --watch`,
		Group: "tasks",
	}, cmd)
	c.PreRun = func(c *cobra.Command, _ []string) {
		cmd.out = c.OutOrStdout()
	}
	return c
}

// Exec implements command.Command.
func (c *Command) Exec(ctx context.Context, args []string, opts command.Options) (any, error) {
	taskPath := opts.Get(ArgTaskPath)
	missingMessage := opts.Get(ArgMissingMessage)
	if missingMessage == "" {
		missingMessage = taskjson.DefaultMissingMessage
	}

	if opts.Bool(FlagWatch) {
		return c.watch(ctx, taskPath, missingMessage)
	}

	result, err := c.Run(taskPath, missingMessage)
	if err != nil {
		return nil, err
	}
	return result, c.failure(result)
}

// Run validates every file taskPath resolves to.
func (c *Command) Run(taskPath, missingMessage string) (*Result, error) {
	paths, err := ResolvePaths(taskPath, missingMessage)
	if err != nil {
		return nil, err
	}

	logger := log.WithComponent(c.Log(), "validate")
	result := &Result{Files: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		fr := validateFile(path, missingMessage)
		log.Trace(logger, "Validated task file",
			slog.String(log.TaskPathKey, path),
			slog.Bool("valid", fr.Valid))
		if fr.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}
		result.Files = append(result.Files, fr)
	}

	return result, nil
}

func validateFile(path, missingMessage string) FileResult {
	fr := FileResult{Path: path}

	descriptor, issues, err := taskjson.ValidateFile(path, missingMessage)
	if err == nil && len(issues) > 0 {
		err = &tfxerrors.TaskValidationError{Path: path, Issues: issues}
	}
	if descriptor != nil {
		fr.ID = descriptor.ID()
		fr.Name = descriptor.Name()
	}
	fr.Issues = issues

	if err != nil {
		fr.err = err
		fr.Error = err.Error()
		return fr
	}

	fr.Valid = true
	return fr
}

// failure turns a result with invalid files into the command error. A single
// file keeps its own error so the exit code follows its kind.
func (c *Command) failure(result *Result) error {
	first := result.FirstError()
	if first == nil {
		return nil
	}
	if len(result.Files) == 1 {
		return first
	}
	return shared.NewInvalidTaskError(
		fmt.Sprintf("%d of %d task files are invalid", result.Invalid, len(result.Files)), first)
}

// Output implements command.Command.
func (c *Command) Output(w io.Writer, data any) error {
	switch result := data.(type) {
	case *Result:
		if result == nil {
			return nil
		}
		return writeResult(w, result)
	case *WatchResult:
		if shared.GetQuiet() {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s\n", shared.Muted.Render(fmt.Sprintf("stopped after %d runs", result.Runs)))
		return err
	default:
		return nil
	}
}

func writeResult(w io.Writer, result *Result) error {
	if shared.GetQuiet() {
		return nil
	}
	for _, f := range result.Files {
		if f.Valid {
			if _, err := fmt.Fprintln(w, shared.RenderOK(f.Path)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, shared.RenderError(f.Path)); err != nil {
			return err
		}
		for _, issue := range f.Issues {
			fmt.Fprintln(w, shared.RenderIssue(issue))
		}
		if len(f.Issues) == 0 && f.Error != "" {
			fmt.Fprintln(w, shared.RenderIssue(f.Error))
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", shared.Muted.Render(
		fmt.Sprintf("%d valid, %d invalid", result.Valid, result.Invalid)))
	return err
}
