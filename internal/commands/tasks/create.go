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

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/cli/prompt"
	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/log"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
	"github.com/tombee/tfx/pkg/taskjson"
)

// Argument names
const (
	ArgTaskName     = "taskName"
	ArgFriendlyName = "friendlyName"
	ArgDescription  = "description"
	ArgAuthor       = "author"
	FlagOverwrite   = "overwrite"
)

// MaxDescriptionLength bounds the description of a new task.
const MaxDescriptionLength = 80

// CreateResult describes the scaffolded task.
type CreateResult struct {
	Directory string   `json:"directory"`
	TaskJSON  string   `json:"taskJson"`
	Files     []string `json:"files"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Overwrote bool     `json:"overwrote"`
}

// CreateCommand scaffolds a new task directory.
type CreateCommand struct {
	command.Base

	// Dir is where the task directory is created. Empty means the working directory.
	Dir string

	// Prompter asks before overwriting. Nil resolves to a terminal prompter.
	Prompter prompt.Prompter
}

// NewCreate returns the create command.
func NewCreate() *CreateCommand {
	return &CreateCommand{
		Base: command.Base{
			RequiredArguments: []command.Argument{
				{Name: ArgTaskName, FriendlyName: "Task Name"},
				{Name: ArgFriendlyName, FriendlyName: "Friendly Task Name"},
				{Name: ArgDescription, FriendlyName: "Task Description"},
				{Name: ArgAuthor, FriendlyName: "Task Author"},
			},
			Flags: []command.Argument{
				{Name: FlagOverwrite, FriendlyName: "Replace an existing task directory"},
			},
		},
	}
}

// NewCreateCommand creates the tasks create command
func NewCreateCommand() *cobra.Command {
	return command.NewCobraCommand(command.Spec{
		Name:  "create",
		Short: "Scaffold a new build task",
		Long: `Create writes <taskName>/task.json with a new id, a sample input and a
Node entry point, then validates the result.

An existing directory is only replaced after confirmation, or with
--overwrite when running non-interactively.`,
		Example: `  tfx tasks create BuildTask "Build Task" "Builds the project" "Contoso"`,
		Group:   "tasks",
	}, NewCreate())
}

// Exec implements command.Command.
func (c *CreateCommand) Exec(ctx context.Context, args []string, opts command.Options) (any, error) {
	req := ScaffoldRequest{
		Name:         opts.Get(ArgTaskName),
		FriendlyName: opts.Get(ArgFriendlyName),
		Description:  opts.Get(ArgDescription),
		Author:       opts.Get(ArgAuthor),
	}
	if utf8.RuneCountInString(req.Description) > MaxDescriptionLength {
		return nil, &tfxerrors.ValidationError{
			Field:      ArgDescription,
			Message:    fmt.Sprintf("must be %d characters or less", MaxDescriptionLength),
			Suggestion: "Shorten the description; details belong in helpMarkDown",
		}
	}

	taskDir := filepath.Join(c.Dir, req.Name)
	taskPath := filepath.Join(taskDir, TaskFile)

	descriptor := req.Descriptor()
	if issues := taskjson.ValidateTask(taskPath, descriptor); len(issues) > 0 {
		return nil, &tfxerrors.TaskValidationError{Path: taskPath, Issues: issues}
	}

	overwrote, err := c.confirmOverwrite(ctx, taskDir, opts.Bool(FlagOverwrite))
	if err != nil {
		return nil, err
	}

	logger := log.WithComponent(c.Log(), "tasks.create")
	log.Trace(logger, "Writing task scaffold", slog.String(log.TaskPathKey, taskPath))

	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", taskDir, err)
	}

	data, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode task json: %w", err)
	}
	if err := os.WriteFile(taskPath, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", taskPath, err)
	}

	scriptPath := filepath.Join(taskDir, SampleScript)
	if err := os.WriteFile(scriptPath, []byte(sampleScriptSource), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", scriptPath, err)
	}

	written, err := taskjson.Validate(taskPath, "")
	if err != nil {
		return nil, err
	}

	return &CreateResult{
		Directory: taskDir,
		TaskJSON:  taskPath,
		Files:     []string{taskPath, scriptPath},
		ID:        written.ID(),
		Name:      written.Name(),
		Overwrote: overwrote,
	}, nil
}

// confirmOverwrite reports whether taskDir already exists and its scaffold
// files may be rewritten. Other files in taskDir are left alone. It errors
// when overwriting is refused.
func (c *CreateCommand) confirmOverwrite(ctx context.Context, taskDir string, overwrite bool) (bool, error) {
	if _, err := os.Stat(taskDir); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", taskDir, err)
	}

	if overwrite {
		return true, nil
	}

	p := c.Prompter
	if p == nil {
		p = prompt.NewTerminal(!shared.IsNonInteractive())
	}
	if !p.IsInteractive() {
		return false, &tfxerrors.ValidationError{
			Field:      ArgTaskName,
			Message:    fmt.Sprintf("%s already exists", taskDir),
			Suggestion: "Pass --overwrite to replace it",
		}
	}

	ok, err := p.Confirm(ctx, fmt.Sprintf("%s already exists. Overwrite?", taskDir), false)
	if err != nil {
		return false, fmt.Errorf("overwrite confirmation failed: %w", err)
	}
	if !ok {
		return false, &tfxerrors.ValidationError{Field: ArgTaskName, Message: "not overwriting " + taskDir}
	}
	return true, nil
}

// Output implements command.Command.
func (c *CreateCommand) Output(w io.Writer, data any) error {
	result, ok := data.(*CreateResult)
	if !ok || result == nil || shared.GetQuiet() {
		return nil
	}

	if result.Overwrote {
		fmt.Fprintln(w, shared.RenderWarn(fmt.Sprintf("Overwrote %s and %s in %s",
			TaskFile, SampleScript, result.Directory)))
	}
	fmt.Fprintln(w, shared.RenderOK(fmt.Sprintf("Created task %s", shared.Bold.Render(result.Name))))
	fmt.Fprintf(w, "  %s %s\n", shared.Muted.Render("id:"), result.ID)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}
