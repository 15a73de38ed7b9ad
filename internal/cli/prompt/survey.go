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

package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if !t.interactive {
		return false, ErrNonInteractive
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	result := def
	err := survey.AskOne(&survey.Confirm{
		Message: message,
		Default: def,
	}, &result)
	if errors.Is(err, terminal.InterruptErr) {
		return false, ErrAborted
	}
	return result, err
}
