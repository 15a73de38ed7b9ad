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


package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/output"
)

// CommandMetadata describes one command in `tfx help --json`. The list view
// fills Name, Short, Usage and Group; the detail view adds the rest.
type CommandMetadata struct {
	Name        string         `json:"name"`
	Short       string         `json:"short"`
	Usage       string         `json:"usage"`
	Group       string         `json:"group,omitempty"`
	Long        string         `json:"long,omitempty"`
	Example     string         `json:"example,omitempty"`
	Flags       []FlagMetadata `json:"flags,omitempty"`
	Subcommands []string       `json:"subcommands,omitempty"`
}

// FlagMetadata describes a flag. Argument is set for flags that can also be
// given positionally.
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
	Argument  string `json:"argument,omitempty"`
	Required  bool   `json:"required"`
}

// HelpResponse is the envelope for `tfx help --json`.
type HelpResponse struct {
	output.JSONResponse
	Commands    []CommandMetadata `json:"commands,omitempty"`
	Command     *CommandMetadata  `json:"detail,omitempty"`
	GlobalFlags []FlagMetadata    `json:"global_flags,omitempty"`
}

// NewHelpCommand creates the help command.
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Run 'tfx help' to list the commands and 'tfx help <command>' for one of them.
Use --json for machine-readable output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			useJSON := shared.GetJSON() || jsonOutput

			if len(args) == 0 {
				if !useJSON {
					return rootCmd.Help()
				}
				resp := newHelpResponse("help", rootCmd)
				resp.Commands = []CommandMetadata{}
				for _, c := range rootCmd.Commands() {
					if !c.Hidden {
						resp.Commands = append(resp.Commands, summarize(c))
					}
				}
				return output.EmitJSON(cmd.OutOrStdout(), resp)
			}

			target, _, err := rootCmd.Find(args)
			if err != nil || target == rootCmd {
				return fmt.Errorf("command %q not found", args[0])
			}
			if !useJSON {
				return target.Help()
			}

			path := strings.TrimPrefix(target.CommandPath(), rootCmd.Name()+" ")
			resp := newHelpResponse("help "+path, rootCmd)
			detail := describe(target)
			resp.Command = &detail
			return output.EmitJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newHelpResponse(name string, rootCmd *cobra.Command) HelpResponse {
	return HelpResponse{
		JSONResponse: output.JSONResponse{Version: output.EnvelopeVersion, Command: name, Success: true},
		GlobalFlags:  flagMetadata(rootCmd.PersistentFlags()),
	}
}

func summarize(cmd *cobra.Command) CommandMetadata {
	return CommandMetadata{
		Name:  cmd.Name(),
		Short: cmd.Short,
		Usage: cmd.UseLine(),
		Group: cmd.Annotations["group"],
	}
}

func describe(cmd *cobra.Command) CommandMetadata {
	metadata := summarize(cmd)
	metadata.Long = cmd.Long
	metadata.Example = cmd.Example
	metadata.Flags = flagMetadata(cmd.LocalNonPersistentFlags())
	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			metadata.Subcommands = append(metadata.Subcommands, sub.Name())
		}
	}
	return metadata
}

// flagMetadata lists the visible flags in fs. A required argument without a
// default is the only kind of required flag.
func flagMetadata(fs *pflag.FlagSet) []FlagMetadata {
	flags := []FlagMetadata{}
	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		meta := FlagMetadata{
			Name:      flag.Name,
			Shorthand: flag.Shorthand,
			Usage:     flag.Usage,
			Default:   flag.DefValue,
		}
		if kind := flag.Annotations[command.ArgumentAnnotation]; len(kind) > 0 {
			meta.Argument = kind[0]
			meta.Required = kind[0] == "required" && flag.DefValue == ""
		}
		flags = append(flags, meta)
	})
	return flags
}
