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

// Package version implements "tfx version".
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
)

// VersionInfo contains version metadata
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Command prints build information.
type Command struct {
	command.Base
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return command.NewCobraCommand(command.Spec{
		Name:  "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date for tfx.`,
	}, &Command{})
}

// Exec implements command.Command.
func (c *Command) Exec(ctx context.Context, args []string, opts command.Options) (any, error) {
	v, commit, built := shared.GetVersion()
	return &VersionInfo{
		Version:   v,
		Commit:    commit,
		BuildDate: built,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}, nil
}

// Output implements command.Command.
func (c *Command) Output(w io.Writer, data any) error {
	info, ok := data.(*VersionInfo)
	if !ok {
		return nil
	}
	fmt.Fprintf(w, "tfx version %s\n", info.Version)
	fmt.Fprintf(w, "  commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  build date: %s\n", info.BuildDate)
	_, err := fmt.Fprintf(w, "  go:         %s %s\n", info.GoVersion, info.Platform)
	return err
}
