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

package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/jq"
	"github.com/tombee/tfx/internal/log"
	"github.com/tombee/tfx/internal/output"
)

// Spec describes how a Command appears on the command line.
type Spec struct {
	Name    string
	Short   string
	Long    string
	Example string

	// Group is the help group annotation ("tasks", "auth", ...).
	Group string
}

// ArgumentAnnotation marks flags that also take a positional argument. Its
// value is "required" or "optional".
const ArgumentAnnotation = "tfx_argument"

// NewCobraCommand adapts cmd to cobra.
//
// Required and optional arguments become string flags and flags become bool
// flags, so every argument can also be given as --name. Only flags set on the
// command line reach Options.
func NewCobraCommand(spec Spec, cmd Command) *cobra.Command {
	decl := cmd.Declarations()

	c := &cobra.Command{
		Use:           spec.Name + decl.Arguments(),
		Short:         spec.Short,
		Long:          spec.Long,
		Example:       spec.Example,
		Args:          cobra.MaximumNArgs(len(decl.RequiredArguments)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, cmd, args)
		},
	}
	if spec.Group != "" {
		c.Annotations = map[string]string{"group": spec.Group}
	}

	for _, arg := range decl.RequiredArguments {
		c.Flags().String(arg.Name, arg.DefaultValue, arg.FriendlyName)
		_ = c.Flags().SetAnnotation(arg.Name, ArgumentAnnotation, []string{"required"})
	}
	for _, arg := range decl.OptionalArguments {
		c.Flags().String(arg.Name, arg.DefaultValue, arg.FriendlyName)
		_ = c.Flags().SetAnnotation(arg.Name, ArgumentAnnotation, []string{"optional"})
	}
	for _, arg := range decl.Flags {
		c.Flags().Bool(arg.Name, arg.DefaultValue == "true", arg.FriendlyName)
	}

	return c
}

// CollectOptions returns the flags explicitly set on c.
func CollectOptions(c *cobra.Command) Options {
	opts := Options{}
	c.LocalFlags().Visit(func(f *pflag.Flag) {
		opts[f.Name] = f.Value.String()
	})
	return opts
}

func run(c *cobra.Command, cmd Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	name := commandName(c)
	logger := log.WithCommand(cmd.Declarations().Log(), name)
	log.Trace(logger, "Binding arguments", slog.Int("positional", len(args)))

	opts := CollectOptions(c)
	bindings, err := cmd.Declarations().CheckArguments(args, opts)
	if err != nil {
		return emitFailure(c, cmd, name, nil, err)
	}

	log.Trace(logger, "Executing command")
	result, err := cmd.Exec(ctx, args, opts.With(bindings))
	if err != nil {
		return emitFailure(c, cmd, name, result, err)
	}

	if !shared.GetJSON() {
		return cmd.Output(c.OutOrStdout(), result)
	}

	var rendered any = output.Success(name, result)
	if expr := shared.GetJQ(); expr != "" {
		rendered, err = jq.NewExecutor(jq.DefaultTimeout, jq.DefaultMaxInputSize).Execute(ctx, expr, rendered)
		if err != nil {
			return err
		}
	}
	return output.EmitJSON(c.OutOrStdout(), rendered)
}

// emitFailure renders whatever result Exec produced alongside err, then
// returns err so the exit code still reflects it. In JSON mode the result
// travels as the data of the failure envelope.
func emitFailure(c *cobra.Command, cmd Command, name string, result any, err error) error {
	if !shared.GetJSON() {
		if result != nil {
			if outErr := cmd.Output(c.OutOrStdout(), result); outErr != nil {
				return errors.Join(err, outErr)
			}
		}
		return err
	}
	if shared.GetJQ() != "" {
		return err
	}

	envelope := output.Failure(name, []output.JSONError{output.ErrorFrom(shared.ErrorCode(err), err)})
	envelope.Data = result
	if emitErr := output.EmitJSON(c.OutOrStdout(), envelope); emitErr != nil {
		return errors.Join(err, emitErr)
	}
	return err
}

// commandName is the command path without the binary name ("tasks create").
func commandName(c *cobra.Command) string {
	path := c.CommandPath()
	if root := c.Root(); root != c {
		path = strings.TrimPrefix(path, root.Name()+" ")
	}
	return path
}
