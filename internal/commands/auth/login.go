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
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/tfx/internal/cli/prompt"
	"github.com/tombee/tfx/internal/command"
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/config"
	"github.com/tombee/tfx/internal/connection"
	"github.com/tombee/tfx/internal/log"
	"github.com/tombee/tfx/internal/secrets"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// LoginResult is what login recorded.
type LoginResult struct {
	ServiceURL string `json:"serviceUrl"`
	AuthType   string `json:"authType"`
	Username   string `json:"username,omitempty"`
	Store      string `json:"store"`
	Token      string `json:"token"`
	Session    string `json:"session"`
}

// LoginCommand stores the service url and credentials for later commands.
type LoginCommand struct {
	command.Base
	deps

	// Prompter reads a missing token. Nil resolves to a terminal prompter.
	Prompter prompt.Prompter
}

// NewLogin returns the login command.
func NewLogin() *LoginCommand {
	return &LoginCommand{
		Base: command.Base{
			RequiredArguments: []command.Argument{
				{Name: ArgServiceURL, FriendlyName: "Service URL"},
			},
			OptionalArguments: []command.Argument{
				{Name: ArgAuthType, FriendlyName: "Authentication Type", DefaultValue: config.AuthTypePAT},
				{Name: ArgUsername, FriendlyName: "Username"},
				{Name: ArgToken, FriendlyName: "Personal access token"},
			},
		},
	}
}

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	return command.NewCobraCommand(command.Spec{
		Name:  "login",
		Short: "Store credentials for a collection",
		Long: `Login records the collection url and authentication type in the config
file and keeps the token in the OS keychain, or in an encrypted file when
no keychain is available.

No request is sent to the service. When --token is omitted the token is
read from a prompt; in non-interactive sessions it must be passed.`,
		Example: `  # Personal access token, prompted
  tfx login https://dev.azure.com/contoso

  # Basic auth in CI
  tfx login https://tfs.contoso.com/DefaultCollection --authType basic --username builder --token "$TOKEN"`,
		Group: "auth",
	}, NewLogin())
}

// Exec implements command.Command.
func (c *LoginCommand) Exec(ctx context.Context, args []string, opts command.Options) (any, error) {
	serviceURL := strings.TrimRight(opts.Get(ArgServiceURL), "/")
	if err := config.ValidateServiceURL(serviceURL); err != nil {
		return nil, &tfxerrors.ConfigError{Key: "service.url", Reason: err.Error()}
	}

	authType := strings.ToLower(opts.Get(ArgAuthType))
	username := opts.Get(ArgUsername)
	if authType == config.AuthTypeBasic && username == "" {
		return nil, &tfxerrors.MissingArgumentError{Name: ArgUsername, FriendlyName: "Username"}
	}

	cfg, err := config.Load(c.configPath())
	if err != nil {
		return nil, err
	}
	cfg.Service = config.ServiceConfig{URL: serviceURL, AuthType: authType, Username: username}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := c.token(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Build the handler before anything is written so a bad auth type
	// leaves the config and the store untouched.
	auth, err := connection.NewAuthHandler(authType, username, token)
	if err != nil {
		return nil, &tfxerrors.ConfigError{Key: "service.auth_type", Reason: err.Error()}
	}

	store, err := c.store(cfg)
	if err != nil {
		return nil, err
	}
	key := secrets.TokenKey(serviceURL)
	previous, prevErr := store.Get(ctx, key)
	if err := store.Set(ctx, key, token); err != nil {
		return nil, shared.NewConfigError("failed to store token", err)
	}

	if err := config.Save(c.configPath(), cfg); err != nil {
		// Put the store back the way it was so no token outlives a failed login.
		if prevErr == nil {
			_ = store.Set(ctx, key, previous)
		} else {
			_ = store.Delete(ctx, key)
		}
		return nil, shared.NewConfigError("failed to save config", err)
	}

	// Read the credentials back the way later commands will and build a
	// client from them. No request is sent.
	c.Connection, err = connection.FromConfig(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	client, err := c.WebAPI()
	if err != nil {
		return nil, err
	}

	log.WithComponent(c.Log(), "login").Debug("stored credentials",
		slog.String("url", client.BaseURL()),
		slog.String("auth_type", auth.Name()),
		slog.String("store", store.Name()),
		slog.String("session", client.SessionID()))

	return &LoginResult{
		ServiceURL: serviceURL,
		AuthType:   auth.Name(),
		Username:   username,
		Store:      store.Name(),
		Token:      log.SanitizeToken(token),
		Session:    client.SessionID(),
	}, nil
}

func (c *LoginCommand) token(ctx context.Context, opts command.Options) (string, error) {
	if token := opts.Get(ArgToken); token != "" {
		return token, nil
	}

	p := c.Prompter
	if p == nil {
		p = prompt.NewTerminal(!shared.IsNonInteractive())
	}
	if !p.IsInteractive() {
		return "", &tfxerrors.MissingArgumentError{Name: ArgToken, FriendlyName: "Personal access token"}
	}

	token, err := p.Secret(ctx, "Personal access token", "Stored in the OS keychain; never written to the config file")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// Output implements command.Command.
func (c *LoginCommand) Output(w io.Writer, data any) error {
	result, ok := data.(*LoginResult)
	if !ok || result == nil || shared.GetQuiet() {
		return nil
	}
	_, err := fmt.Fprintln(w, shared.RenderOK(fmt.Sprintf("Logged in to %s (%s, token %s in %s)",
		shared.Bold.Render(result.ServiceURL), result.AuthType, result.Token, result.Store)))
	return err
}
