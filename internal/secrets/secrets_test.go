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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tombee/tfx/internal/config"
)

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "token:https://dev.example.com/org", TokenKey("https://dev.example.com/org"))
}

func TestKeychainBackend_RoundTrip(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	kc := NewKeychainBackend()
	require.True(t, kc.Available())
	assert.Equal(t, "keychain", kc.Name())

	_, err := kc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrSecretNotFound))

	require.NoError(t, kc.Set(ctx, "token:a", "one"))
	require.NoError(t, kc.Set(ctx, "token:a", "two"))
	got, err := kc.Get(ctx, "token:a")
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	require.NoError(t, kc.Delete(ctx, "token:a"))
	err = kc.Delete(ctx, "token:a")
	assert.True(t, errors.Is(err, ErrSecretNotFound))
}

func TestKeychainBackend_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: secret service not running"))
	defer keyring.MockInit()

	kc := NewKeychainBackend()
	assert.False(t, kc.Available())

	_, err := kc.Get(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.True(t, errors.Is(kc.Set(context.Background(), "x", "y"), ErrBackendUnavailable))
}

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secrets.enc")

	fb, err := NewFileBackend(path, "correct horse battery staple")
	require.NoError(t, err)
	require.True(t, fb.Available())
	assert.Equal(t, "file", fb.Name())

	_, err = fb.Get(ctx, "token:a")
	assert.True(t, errors.Is(err, ErrSecretNotFound))

	require.NoError(t, fb.Set(ctx, "token:a", "pat-123"))
	require.NoError(t, fb.Set(ctx, "token:b", "pat-456"))

	got, err := fb.Get(ctx, "token:a")
	require.NoError(t, err)
	assert.Equal(t, "pat-123", got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "pat-123")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fb.Delete(ctx, "token:a"))
	_, err = fb.Get(ctx, "token:a")
	assert.True(t, errors.Is(err, ErrSecretNotFound))
	assert.True(t, errors.Is(fb.Delete(ctx, "token:a"), ErrSecretNotFound))

	got, err = fb.Get(ctx, "token:b")
	require.NoError(t, err)
	assert.Equal(t, "pat-456", got)
}

func TestFileBackend_WrongKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secrets.enc")

	fb, err := NewFileBackend(path, "key-one")
	require.NoError(t, err)
	require.NoError(t, fb.Set(ctx, "k", "v"))

	other, err := NewFileBackend(path, "key-two")
	require.NoError(t, err)
	_, err = other.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestFileBackend_MasterKeyResolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.enc")

	t.Run("unavailable without key", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "")
		fb, err := NewFileBackend(path, "")
		require.NoError(t, err)
		assert.False(t, fb.Available())
		_, err = fb.Get(context.Background(), "k")
		assert.True(t, errors.Is(err, ErrBackendUnavailable))
	})

	t.Run("env key", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "from-env")
		fb, err := NewFileBackend(path, "")
		require.NoError(t, err)
		assert.True(t, fb.Available())
	})

	t.Run("key file must be private", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "")
		keyPath := filepath.Join(dir, "master.key")
		require.NoError(t, os.WriteFile(keyPath, []byte("from-file"), 0o644))
		require.NoError(t, os.Chmod(keyPath, 0o644))

		fb, err := NewFileBackend(path, "")
		require.NoError(t, err)
		assert.False(t, fb.Available())

		require.NoError(t, os.Chmod(keyPath, 0o600))
		fb, err = NewFileBackend(path, "")
		require.NoError(t, err)
		assert.True(t, fb.Available())
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	t.Run("auto prefers keychain", func(t *testing.T) {
		keyring.MockInit()
		store, err := Open(config.SecretsConfig{Backend: config.SecretsBackendAuto})
		require.NoError(t, err)
		assert.Equal(t, "keychain", store.Name())
	})

	t.Run("auto falls back to file", func(t *testing.T) {
		keyring.MockInitWithError(errors.New("secret service unavailable"))
		defer keyring.MockInit()
		t.Setenv(MasterKeyEnv, "k")

		store, err := Open(config.SecretsConfig{Backend: config.SecretsBackendAuto, FilePath: filepath.Join(dir, "s.enc")})
		require.NoError(t, err)
		assert.Equal(t, "file", store.Name())
	})

	t.Run("keychain required but missing", func(t *testing.T) {
		keyring.MockInitWithError(errors.New("dbus failure"))
		defer keyring.MockInit()

		_, err := Open(config.SecretsConfig{Backend: config.SecretsBackendKeychain})
		assert.True(t, errors.Is(err, ErrBackendUnavailable))
	})

	t.Run("file without master key", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "")
		_, err := Open(config.SecretsConfig{Backend: config.SecretsBackendFile, FilePath: filepath.Join(dir, "none", "s.enc")})
		assert.True(t, errors.Is(err, ErrBackendUnavailable))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(config.SecretsConfig{Backend: "vault"})
		assert.Error(t, err)
	})
}

func TestFileBackend_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"salt":"","nonce":"","ciphertext":""}`), 0o600))

	fb, err := NewFileBackend(path, "k")
	require.NoError(t, err)
	_, err = fb.Get(context.Background(), "token:a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version 2")
}
