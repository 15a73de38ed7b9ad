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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/tfx/internal/commands/shared"
)

func runHelp(t *testing.T, args ...string) HelpResponse {
	t.Helper()
	defer shared.ResetFlagsForTest()

	rootCmd := NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"help"}, args...))

	require.NoError(t, rootCmd.Execute())

	var resp HelpResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), buf.String())
	return resp
}

func TestHelpCommandJSON_AllCommands(t *testing.T) {
	resp := runHelp(t, "--json")

	assert.Equal(t, "1.0", resp.Version)
	assert.Equal(t, "help", resp.JSONResponse.Command)
	assert.True(t, resp.Success)

	names := make([]string, 0, len(resp.Commands))
	for _, c := range resp.Commands {
		names = append(names, c.Name)
	}
	assert.Subset(t, names, []string{"validate", "tasks", "login", "logout", "version"})

	globals := make([]string, 0, len(resp.GlobalFlags))
	for _, f := range resp.GlobalFlags {
		globals = append(globals, f.Name)
	}
	assert.ElementsMatch(t, []string{"verbose", "quiet", "json", "jq", "config"}, globals)
}

func TestHelpCommandJSON_SingleCommand(t *testing.T) {
	resp := runHelp(t, "tasks", "create", "--json")

	require.NotNil(t, resp.Command)
	assert.Equal(t, "help tasks create", resp.JSONResponse.Command)
	assert.Equal(t, "create", resp.Command.Name)
	assert.Equal(t, "tasks", resp.Command.Group)
	assert.Contains(t, resp.Command.Usage, "<Task Name> <Friendly Task Name> <Task Description> <Task Author> [options]")

	required := map[string]bool{}
	for _, f := range resp.Command.Flags {
		required[f.Name] = f.Required
	}
	assert.True(t, required["taskName"])
	assert.True(t, required["author"])
	assert.False(t, required["overwrite"])
}

func TestHelpCommandJSON_OptionalNotRequired(t *testing.T) {
	resp := runHelp(t, "login", "--json")

	required := map[string]bool{}
	for _, f := range resp.Command.Flags {
		required[f.Name] = f.Required
	}
	assert.True(t, required["serviceUrl"])
	assert.False(t, required["username"])
	assert.False(t, required["token"])
	assert.False(t, required["authType"])
}

func TestHelpCommandJSON_DetailOnlyFields(t *testing.T) {
	resp := runHelp(t, "validate", "--json")

	require.NotNil(t, resp.Command)
	assert.NotEmpty(t, resp.Command.Long)
	assert.NotEmpty(t, resp.Command.Example)

	kinds := map[string]string{}
	for _, f := range resp.Command.Flags {
		kinds[f.Name] = f.Argument
	}
	assert.Equal(t, "required", kinds["taskPath"])
	assert.Equal(t, "optional", kinds["missingMessage"])
	assert.Equal(t, "", kinds["watch"])
	assert.NotContains(t, kinds, "json", "global flags are listed separately")

	list := runHelp(t, "--json")
	for _, c := range list.Commands {
		assert.Empty(t, c.Flags, c.Name)
		assert.Empty(t, c.Long, c.Name)
	}
}

func TestHelpCommand_UnknownCommand(t *testing.T) {
	defer shared.ResetFlagsForTest()

	rootCmd := NewRootCommand()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"help", "nope"})

	assert.Error(t, rootCmd.Execute())
}
