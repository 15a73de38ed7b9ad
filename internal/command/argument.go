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

import "strings"

// Argument declares one named input of a command.
type Argument struct {
	// Name is the identifier used for the --name option and in Bindings.
	Name string

	// FriendlyName is the label shown in usage hints.
	FriendlyName string

	// DefaultValue applies when nothing else supplies a value. Empty means none.
	DefaultValue string
}

// FormatArgumentsHint renders the usage suffix for a command: required
// arguments as <friendlyName> in order, optional ones as
// [--name <friendlyName>], then a trailing " [options]". Flags are covered by
// [options] and not listed.
func FormatArgumentsHint(required, optional, flags []Argument) string {
	var sb strings.Builder
	for _, arg := range required {
		sb.WriteString(" <")
		sb.WriteString(arg.FriendlyName)
		sb.WriteString(">")
	}
	for _, arg := range optional {
		sb.WriteString(" [--")
		sb.WriteString(arg.Name)
		sb.WriteString(" <")
		sb.WriteString(arg.FriendlyName)
		sb.WriteString(">]")
	}
	sb.WriteString(" [options]")
	return sb.String()
}
