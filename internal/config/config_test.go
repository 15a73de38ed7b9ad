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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TFX_SERVICE_URL", "TFX_AUTH_TYPE", "TFX_USERNAME"} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, AuthTypePAT, cfg.Service.AuthType)
	assert.Equal(t, SecretsBackendAuto, cfg.Secrets.Backend)
	assert.Empty(t, cfg.Service.URL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathUsesXDG(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tfx"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tfx", "config.yaml"),
		[]byte("service:\n  url: https://dev.example.com/org\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example.com/org", cfg.Service.URL)
	assert.Equal(t, AuthTypePAT, cfg.Service.AuthType)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`service:
  url: https://file.example.com/org
  auth_type: basic
  username: builder
secrets:
  backend: file
`), 0o600))

	t.Setenv("TFX_SERVICE_URL", "https://env.example.com/org")
	t.Setenv("TFX_AUTH_TYPE", "BEARER")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/org", cfg.Service.URL)
	assert.Equal(t, AuthTypeBearer, cfg.Service.AuthType)
	assert.Equal(t, "builder", cfg.Service.Username)
	assert.Equal(t, SecretsBackendFile, cfg.Secrets.Backend)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [unclosed"), 0o600))

	_, err := Load(path)
	var cfgErr *tfxerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "config_file", cfgErr.Key)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "valid https url", mutate: func(c *Config) { c.Service.URL = "https://dev.example.com/org" }},
		{name: "valid http url", mutate: func(c *Config) { c.Service.URL = "http://tfs:8080/tfs/DefaultCollection" }},
		{name: "bad scheme", mutate: func(c *Config) { c.Service.URL = "ftp://dev.example.com" }, wantKey: "service.url"},
		{name: "no host", mutate: func(c *Config) { c.Service.URL = "https://" }, wantKey: "service.url"},
		{name: "bad auth type", mutate: func(c *Config) { c.Service.AuthType = "ntlm" }, wantKey: "service.auth_type"},
		{name: "bad backend", mutate: func(c *Config) { c.Secrets.Backend = "vault" }, wantKey: "secrets.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *tfxerrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Service.URL = "https://dev.example.com/org"
	cfg.Service.AuthType = AuthTypeBasic
	cfg.Service.Username = "builder"
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "tfx"), dir)

	p, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "tfx", "config.yaml"), p)
}
