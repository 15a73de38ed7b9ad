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

// Package auth implements "tfx login" and "tfx logout".
package auth

import (
	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/config"
	"github.com/tombee/tfx/internal/secrets"
)

// Argument names
const (
	ArgServiceURL = "serviceUrl"
	ArgAuthType   = "authType"
	ArgUsername   = "username"
	ArgToken      = "token"
)

// StoreOpener opens the secret store for a config.
type StoreOpener func(cfg config.SecretsConfig) (secrets.Store, error)

// deps is shared by login and logout.
type deps struct {
	// ConfigPath overrides the config file. Empty uses --config, then the default.
	ConfigPath string

	// OpenStore opens the token store. Nil uses secrets.Open.
	OpenStore StoreOpener
}

func (d *deps) configPath() string {
	if d.ConfigPath != "" {
		return d.ConfigPath
	}
	return shared.GetConfigPath()
}

func (d *deps) store(cfg *config.Config) (secrets.Store, error) {
	open := d.OpenStore
	if open == nil {
		open = secrets.Open
	}
	store, err := open(cfg.Secrets)
	if err != nil {
		return nil, shared.NewConfigError("cannot open secret store", err)
	}
	return store, nil
}
