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

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearInteractiveEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{NonInteractiveEnv, "CI", "TF_BUILD", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_HOME"} {
		t.Setenv(key, "")
	}
}

func TestIsNonInteractive(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"explicit override", map[string]string{NonInteractiveEnv: "true"}},
		{"CI=true", map[string]string{"CI": "true"}},
		{"CI=1", map[string]string{"CI": "1"}},
		{"Azure Pipelines", map[string]string{"TF_BUILD": "True"}},
		{"GITHUB_ACTIONS=true", map[string]string{"GITHUB_ACTIONS": "true"}},
		{"JENKINS_HOME set to path", map[string]string{"JENKINS_HOME": "/var/jenkins"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearInteractiveEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			assert.True(t, IsNonInteractive())
		})
	}
}

func TestIsNonInteractive_FollowsTerminal(t *testing.T) {
	clearInteractiveEnv(t)

	// Without env overrides the answer is whatever stdin is.
	assert.Equal(t, !isTerminal(), IsNonInteractive())
}

func TestGetJSON_ImpliedByJQ(t *testing.T) {
	defer ResetFlagsForTest()

	_, _, jsonPtr, jqPtr, _ := RegisterFlagPointers()
	assert.False(t, GetJSON())

	*jqPtr = ".data"
	assert.True(t, GetJSON())

	*jqPtr = ""
	*jsonPtr = true
	assert.True(t, GetJSON())
}
