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
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/commands/auth"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/commands/tasks"
	"github.com/tombee/tfx/internal/commands/validate"
	versioncmd "github.com/tombee/tfx/internal/commands/version"
	"github.com/tombee/tfx/internal/config"
	"github.com/tombee/tfx/internal/log"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for tfx with every
// subcommand attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tfx",
		Short: "tfx - build task tooling",
		Long: `tfx validates and scaffolds build task definitions (task.json) and keeps
the credentials used to reach a collection.

Run 'tfx validate <path>' to check a task.
Run 'tfx tasks create' to start a new one.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr())
		},
	}

	// Get flag pointers from shared package
	verbose, quiet, json, jq, configPath := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(jq, "jq", "", "Filter JSON output with a jq expression (implies --json)")
	cmd.PersistentFlags().StringVar(configPath, "config", "", "Path to config file (default: ~/.config/tfx/config.yaml)")

	cmd.AddCommand(validate.NewCommand())
	cmd.AddCommand(tasks.NewCommand())
	cmd.AddCommand(auth.NewLoginCommand())
	cmd.AddCommand(auth.NewLogoutCommand())
	cmd.AddCommand(versioncmd.NewVersionCommand())

	cmd.SetHelpCommand(NewHelpCommand(cmd))

	return cmd
}

// configureLogging installs the default logger. Environment variables win
// over the config file; --verbose and --quiet win over both.
func configureLogging(stderr io.Writer) {
	logCfg := log.FromEnv()

	if fileCfg, err := config.Load(shared.GetConfigPath()); err == nil {
		if fileCfg.Log.Level != "" && !levelFromEnv() {
			logCfg.Level = fileCfg.Log.Level
		}
		if fileCfg.Log.Format != "" && os.Getenv("LOG_FORMAT") == "" {
			logCfg.Format = log.Format(fileCfg.Log.Format)
		}
	}

	switch {
	case shared.GetVerbose():
		logCfg.Level = "debug"
	case shared.GetQuiet():
		logCfg.Level = "error"
	}

	logCfg.Output = stderr
	slog.SetDefault(log.New(logCfg))
}

func levelFromEnv() bool {
	for _, key := range []string{"TFX_DEBUG", "TFX_LOG_LEVEL", "LOG_LEVEL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return shared.ReportError(stderr, err)
	}
	return shared.ExitSuccess
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}
