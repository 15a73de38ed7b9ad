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

package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// keychainService is the service name used for keychain entries.
const keychainService = "tfx"

// KeychainBackend stores secrets in the OS keychain.
type KeychainBackend struct {
	available bool
}

// NewKeychainBackend probes the keychain and returns a backend. A locked or
// missing keychain service yields a backend whose Available reports false.
func NewKeychainBackend() *KeychainBackend {
	backend := &KeychainBackend{available: true}

	_, err := keyring.Get(keychainService, "__tfx_availability_test__")
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		backend.available = false
	}

	return backend
}

// Name implements Store.
func (k *KeychainBackend) Name() string {
	return "keychain"
}

// Get implements Store.
func (k *KeychainBackend) Get(ctx context.Context, key string) (string, error) {
	if !k.available {
		return "", fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
	}

	value, err := keyring.Get(keychainService, key)
	if err != nil {
		return "", translateKeyringError(err, key)
	}
	return value, nil
}

// Set implements Store.
func (k *KeychainBackend) Set(ctx context.Context, key string, value string) error {
	if !k.available {
		return fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
	}

	if err := keyring.Set(keychainService, key, value); err != nil {
		return translateKeyringError(err, key)
	}
	return nil
}

// Delete implements Store.
func (k *KeychainBackend) Delete(ctx context.Context, key string) error {
	if !k.available {
		return fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
	}

	if err := keyring.Delete(keychainService, key); err != nil {
		return translateKeyringError(err, key)
	}
	return nil
}

// Available implements Store.
func (k *KeychainBackend) Available() bool {
	return k.available
}

func translateKeyringError(err error, key string) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	if isKeychainUnavailableError(err) {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err.Error())
	}
	return fmt.Errorf("keychain error: %w", err)
}

func isKeychainUnavailableError(err error) bool {
	errStr := strings.ToLower(err.Error())

	unavailableIndicators := []string{
		"locked",
		"cannot access",
		"permission denied",
		"failed to unlock",
		"user interaction required",
		"secret service",
		"dbus",
		"user canceled",
	}

	for _, indicator := range unavailableIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}
