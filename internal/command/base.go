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

// Package command is the framework tfx subcommands are built on.
//
// A subcommand embeds Base, declares its arguments and overrides Exec and
// Output. NewCobraCommand turns it into a cobra command that binds arguments,
// runs Exec and renders the result either as text or as a JSON envelope.
package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/tombee/tfx/internal/connection"
	"github.com/tombee/tfx/internal/log"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
	"github.com/tombee/tfx/pkg/webapi"
)

// ErrNotImplemented is returned by Base.Exec.
var ErrNotImplemented = errors.New("Not implemented.  Must override")

// Options holds named option values from the command line. Boolean flags are
// "true" when set.
type Options map[string]string

// Get returns the value for name, or "" when absent.
func (o Options) Get(name string) string {
	return o[name]
}

// Bool reports whether name parses as a true boolean.
func (o Options) Bool(name string) bool {
	v, err := strconv.ParseBool(o[name])
	return err == nil && v
}

// With returns a copy of o with every binding applied over it.
func (o Options) With(b Bindings) Options {
	merged := make(Options, len(o)+len(b))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}

// Bindings maps argument names to their resolved values.
type Bindings map[string]string

// Get returns the value bound to name, or "" when unbound.
func (b Bindings) Get(name string) string {
	return b[name]
}

// Bool reports whether the value bound to name parses as a true boolean.
func (b Bindings) Bool(name string) bool {
	v, err := strconv.ParseBool(b[name])
	return err == nil && v
}

// Command is implemented by every subcommand.
type Command interface {
	// Exec performs the action. opts carries the bound arguments.
	Exec(ctx context.Context, args []string, opts Options) (any, error)

	// Output renders the result of Exec as text.
	Output(w io.Writer, data any) error

	// Declarations returns the embedded Base.
	Declarations() *Base
}

// Base carries argument declarations and the connection of a command.
type Base struct {
	RequiredArguments []Argument
	OptionalArguments []Argument
	Flags             []Argument

	// Connection is used by WebAPI. Nil for commands that never call the service.
	Connection *connection.Connection

	// Logger receives trace output. Nil uses slog.Default().
	Logger *slog.Logger
}

// Declarations implements Command.
func (b *Base) Declarations() *Base {
	return b
}

// Log returns the command logger.
func (b *Base) Log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// CheckArguments resolves every declared argument.
//
// A required argument takes args[i], then opts[name], then its default; the
// first one left empty fails with *errors.MissingArgumentError. Optional
// arguments and then flags take opts[name], then their default.
func (b *Base) CheckArguments(args []string, opts Options) (Bindings, error) {
	bindings := make(Bindings, len(b.RequiredArguments)+len(b.OptionalArguments)+len(b.Flags))

	for i, arg := range b.RequiredArguments {
		var value string
		if i < len(args) {
			value = args[i]
		}
		if value == "" {
			value = opts[arg.Name]
		}
		if value == "" {
			value = arg.DefaultValue
		}
		if value == "" {
			log.Trace(b.Log(), "Missing required argument",
				slog.String(log.ArgumentKey, arg.Name))
			return nil, &tfxerrors.MissingArgumentError{Name: arg.Name, FriendlyName: arg.FriendlyName}
		}
		bindings[arg.Name] = value
	}

	for _, group := range [][]Argument{b.OptionalArguments, b.Flags} {
		for _, arg := range group {
			value := opts[arg.Name]
			if value == "" {
				value = arg.DefaultValue
			}
			bindings[arg.Name] = value
		}
	}

	return bindings, nil
}

// Arguments returns the usage hint for the declared arguments.
func (b *Base) Arguments() string {
	return FormatArgumentsHint(b.RequiredArguments, b.OptionalArguments, b.Flags)
}

// WebAPI returns a new client for the command's connection.
func (b *Base) WebAPI() (*webapi.Client, error) {
	if b.Connection == nil {
		return nil, &tfxerrors.ConfigError{
			Key:    "connection",
			Reason: "command has no connection; run 'tfx login' first",
		}
	}

	var auth webapi.Authenticator
	if b.Connection.Auth != nil {
		auth = b.Connection.Auth
	}
	return webapi.New(b.Connection.CollectionURL, auth)
}

// Exec implements Command. Subcommands must override it.
func (b *Base) Exec(ctx context.Context, args []string, opts Options) (any, error) {
	log.Trace(b.Log(), "Unimplemented command")
	return nil, ErrNotImplemented
}

// Output implements Command. It writes nothing.
func (b *Base) Output(w io.Writer, data any) error {
	return nil
}
