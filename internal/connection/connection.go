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

// Package connection describes how tfx reaches a collection: its URL and the
// credentials to present.
package connection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tombee/tfx/internal/config"
	"github.com/tombee/tfx/internal/secrets"
	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// TokenEnv overrides the stored token for the configured service.
const TokenEnv = "TFX_TOKEN"

// Connection is a collection URL plus the auth handler for it.
type Connection struct {
	CollectionURL string
	Auth          AuthHandler
}

// New returns a Connection for collectionURL. Trailing slashes are trimmed so
// request paths can be joined without doubling them.
func New(collectionURL string, auth AuthHandler) *Connection {
	return &Connection{
		CollectionURL: strings.TrimRight(collectionURL, "/"),
		Auth:          auth,
	}
}

// NewAuthHandler builds the handler for authType.
func NewAuthHandler(authType, username, token string) (AuthHandler, error) {
	switch authType {
	case config.AuthTypePAT, "":
		return NewPATHandler(token), nil
	case config.AuthTypeBasic:
		return NewBasicHandler(username, token), nil
	case config.AuthTypeBearer:
		return NewBearerHandler(token), nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", authType)
	}
}

// FromConfig resolves the connection described by cfg. The token comes from
// TFX_TOKEN when set, otherwise from store. store may be nil when only the
// environment is to be consulted.
func FromConfig(ctx context.Context, cfg *config.Config, store secrets.Store) (*Connection, error) {
	if cfg.Service.URL == "" {
		return nil, &tfxerrors.ConfigError{
			Key:    "service.url",
			Reason: "no service url configured; run 'tfx login <serviceUrl>' or set TFX_SERVICE_URL",
		}
	}

	token := os.Getenv(TokenEnv)
	if token == "" && store != nil {
		var err error
		token, err = store.Get(ctx, secrets.TokenKey(cfg.Service.URL))
		if err != nil && !errors.Is(err, secrets.ErrSecretNotFound) {
			return nil, &tfxerrors.ConfigError{Key: "secrets", Reason: "failed to read stored token", Cause: err}
		}
	}
	if token == "" {
		return nil, &tfxerrors.ConfigError{
			Key:    "token",
			Reason: fmt.Sprintf("no token stored for %s; run 'tfx login' or set %s", cfg.Service.URL, TokenEnv),
		}
	}

	auth, err := NewAuthHandler(cfg.Service.AuthType, cfg.Service.Username, token)
	if err != nil {
		return nil, &tfxerrors.ConfigError{Key: "service.auth_type", Reason: err.Error()}
	}

	return New(cfg.Service.URL, auth), nil
}
