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

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/config"
	"github.com/tombee/tfx/internal/secrets"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// LogoutResult names the url whose token was removed.
type LogoutResult struct {
	ServiceURL string `json:"serviceUrl"`
	Store      string `json:"store"`
}

// LogoutCommand removes a stored token.
type LogoutCommand struct {
	command.Base
	deps
}

// NewLogout returns the logout command.
func NewLogout() *LogoutCommand {
	return &LogoutCommand{
		Base: command.Base{
			OptionalArguments: []command.Argument{
				{Name: ArgServiceURL, FriendlyName: "Service URL"},
			},
		},
	}
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return command.NewCobraCommand(command.Spec{
		Name:  "logout",
		Short: "Remove stored credentials",
		Long: `Logout deletes the token stored for the configured collection, or for
--serviceUrl when given. The config file is left in place.`,
		Group: "auth",
	}, NewLogout())
}

// Exec implements command.Command.
func (c *LogoutCommand) Exec(ctx context.Context, args []string, opts command.Options) (any, error) {
	cfg, err := config.Load(c.configPath())
	if err != nil {
		return nil, err
	}

	serviceURL := strings.TrimRight(opts.Get(ArgServiceURL), "/")
	if serviceURL == "" {
		serviceURL = cfg.Service.URL
	}
	if serviceURL == "" {
		return nil, &tfxerrors.MissingArgumentError{Name: ArgServiceURL, FriendlyName: "Service URL"}
	}

	store, err := c.store(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.Delete(ctx, secrets.TokenKey(serviceURL)); err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			return nil, &tfxerrors.NotFoundError{Resource: "credential", ID: serviceURL}
		}
		return nil, shared.NewConfigError("failed to remove token", err)
	}

	return &LogoutResult{ServiceURL: serviceURL, Store: store.Name()}, nil
}

// Output implements command.Command.
func (c *LogoutCommand) Output(w io.Writer, data any) error {
	result, ok := data.(*LogoutResult)
	if !ok || result == nil || shared.GetQuiet() {
		return nil
	}
	_, err := fmt.Fprintln(w, shared.RenderOK("Logged out of "+result.ServiceURL))
	return err
}
