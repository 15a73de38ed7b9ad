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

// Package config loads and saves the tfx CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// Supported auth types.
const (
	AuthTypePAT    = "pat"
	AuthTypeBasic  = "basic"
	AuthTypeBearer = "bearer"
)

// Supported secret backends.
const (
	SecretsBackendAuto     = "auto"
	SecretsBackendKeychain = "keychain"
	SecretsBackendFile     = "file"
)

// Config represents the tfx configuration file.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Log     LogConfig     `yaml:"log"`
	Secrets SecretsConfig `yaml:"secrets"`
}

// ServiceConfig describes the collection the CLI talks to.
type ServiceConfig struct {
	// URL is the collection URL, e.g. https://dev.azure.com/org.
	// Environment: TFX_SERVICE_URL
	URL string `yaml:"url,omitempty"`

	// AuthType is one of pat, basic or bearer.
	// Environment: TFX_AUTH_TYPE
	// Default: pat
	AuthType string `yaml:"auth_type,omitempty"`

	// Username is sent with basic auth. Ignored for pat and bearer.
	// Environment: TFX_USERNAME
	Username string `yaml:"username,omitempty"`
}

// LogConfig configures CLI logging. Environment variables read by
// internal/log take precedence.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// SecretsConfig selects where tokens are stored.
type SecretsConfig struct {
	// Backend is auto, keychain or file. auto prefers the keychain and falls
	// back to the encrypted file when no keychain service is reachable.
	Backend string `yaml:"backend,omitempty"`

	// FilePath overrides the encrypted secrets file location.
	FilePath string `yaml:"file_path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			AuthType: AuthTypePAT,
		},
		Secrets: SecretsConfig{
			Backend: SecretsBackendAuto,
		},
	}
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path selects ConfigPath(). A missing file
// is not an error: the CLI works from defaults until `tfx login` writes one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, &tfxerrors.ConfigError{Key: "config_file", Reason: "cannot locate config directory", Cause: err}
		}
		path = p
	}

	if err := cfg.loadFromFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &tfxerrors.ConfigError{
			Key:    "config_file",
			Reason: fmt.Sprintf("failed to load from %s", path),
			Cause:  err,
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path atomically. An empty path selects ConfigPath().
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	path = expandHome(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Service.AuthType {
	case AuthTypePAT, AuthTypeBasic, AuthTypeBearer:
	default:
		return &tfxerrors.ConfigError{
			Key:    "service.auth_type",
			Reason: fmt.Sprintf("unsupported auth type %q (want pat, basic or bearer)", c.Service.AuthType),
		}
	}

	if c.Service.URL != "" {
		if err := ValidateServiceURL(c.Service.URL); err != nil {
			return &tfxerrors.ConfigError{Key: "service.url", Reason: err.Error()}
		}
	}

	switch c.Secrets.Backend {
	case SecretsBackendAuto, SecretsBackendKeychain, SecretsBackendFile:
	default:
		return &tfxerrors.ConfigError{
			Key:    "secrets.backend",
			Reason: fmt.Sprintf("unsupported backend %q (want auto, keychain or file)", c.Secrets.Backend),
		}
	}

	return nil
}

// ValidateServiceURL checks that raw is an absolute http(s) URL with a host.
func ValidateServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid service url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service url must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("service url must include a host")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Service.AuthType == "" {
		c.Service.AuthType = AuthTypePAT
	}
	if c.Secrets.Backend == "" {
		c.Secrets.Backend = SecretsBackendAuto
	}
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("TFX_SERVICE_URL"); val != "" {
		c.Service.URL = val
	}
	if val := os.Getenv("TFX_AUTH_TYPE"); val != "" {
		c.Service.AuthType = strings.ToLower(val)
	}
	if val := os.Getenv("TFX_USERNAME"); val != "" {
		c.Service.Username = val
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
