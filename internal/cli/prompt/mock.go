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
	"fmt"
)

// MockPrompter replays canned answers in order.
type MockPrompter struct {
	responses    []any
	currentIndex int
	interactive  bool
	callLog      []string
}

// NewMockPrompter returns a MockPrompter answering with responses.
func NewMockPrompter(interactive bool, responses ...any) *MockPrompter {
	return &MockPrompter{
		responses:   responses,
		interactive: interactive,
		callLog:     make([]string, 0),
	}
}

func (mp *MockPrompter) next() (any, bool) {
	if mp.currentIndex >= len(mp.responses) {
		return nil, false
	}
	resp := mp.responses[mp.currentIndex]
	mp.currentIndex++
	return resp, true
}

// Confirm implements Prompter.
func (mp *MockPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	mp.callLog = append(mp.callLog, fmt.Sprintf("Confirm(%s)", message))
	if !mp.interactive {
		return false, ErrNonInteractive
	}

	resp, ok := mp.next()
	if !ok {
		return def, nil
	}
	switch v := resp.(type) {
	case bool:
		return v, nil
	case error:
		return false, v
	default:
		return false, fmt.Errorf("mock response is not a bool")
	}
}

// Secret implements Prompter.
func (mp *MockPrompter) Secret(ctx context.Context, title, description string) (string, error) {
	mp.callLog = append(mp.callLog, fmt.Sprintf("Secret(%s)", title))
	if !mp.interactive {
		return "", ErrNonInteractive
	}

	resp, ok := mp.next()
	if !ok {
		return "", ErrAborted
	}
	switch v := resp.(type) {
	case string:
		if err := ValidateSecret(v); err != nil {
			return "", err
		}
		return v, nil
	case error:
		return "", v
	default:
		return "", fmt.Errorf("mock response is not a string")
	}
}

// IsInteractive implements Prompter.
func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// GetCallLog returns the prompts shown so far.
func (mp *MockPrompter) GetCallLog() []string {
	return mp.callLog
}
