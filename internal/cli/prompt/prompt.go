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

// Package prompt asks the user for confirmation and secrets.
package prompt

import (
	"context"
	"errors"
)

// ErrNonInteractive is returned when a prompt is needed but cannot be shown.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter collects answers from the user.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string, def bool) (bool, error)

	// Secret reads a value without echoing it.
	Secret(ctx context.Context, title, description string) (string, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// Terminal prompts on the controlling terminal. Confirmations use survey and
// secrets use a huh form.
type Terminal struct {
	interactive bool
}

// NewTerminal returns a Terminal prompter. With interactive false every
// prompt fails with ErrNonInteractive.
func NewTerminal(interactive bool) *Terminal {
	return &Terminal{interactive: interactive}
}

// IsInteractive implements Prompter.
func (t *Terminal) IsInteractive() bool {
	return t.interactive
}
