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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatArgumentsHint(t *testing.T) {
	tests := []struct {
		name     string
		required []Argument
		optional []Argument
		flags    []Argument
		want     string
	}{
		{
			name: "no arguments",
			want: " [options]",
		},
		{
			name:     "required and optional",
			required: []Argument{{Name: "a", FriendlyName: "A"}},
			optional: []Argument{{Name: "b", FriendlyName: "B"}},
			want:     " <A> [--b <B>] [options]",
		},
		{
			name: "required keep declared order",
			required: []Argument{
				{Name: "taskName", FriendlyName: "Task Name"},
				{Name: "friendlyName", FriendlyName: "Friendly Task Name"},
			},
			want: " <Task Name> <Friendly Task Name> [options]",
		},
		{
			name:  "flags fall under options",
			flags: []Argument{{Name: "watch", FriendlyName: "Watch"}},
			want:  " [options]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatArgumentsHint(tt.required, tt.optional, tt.flags))
		})
	}
}
