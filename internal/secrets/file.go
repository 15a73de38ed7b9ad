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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
)

// MasterKeyEnv names the environment variable holding the file backend key.
const MasterKeyEnv = "TFX_MASTER_KEY"

// Argon2id parameters for deriving the AES-256 key from the master key.
const (
	kdfTime    = 3
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32
	saltLen    = 16
)

// sealedVersion is written into every secrets file. Files with another
// version are refused instead of being misread.
const sealedVersion = 1

type sealedFile struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// FileBackend keeps tokens in one AES-GCM sealed JSON file. A fresh salt and
// nonce are drawn on every write.
type FileBackend struct {
	path      string
	masterKey []byte

	mu sync.RWMutex
}

// NewFileBackend returns a file backend for path. An empty masterKey is taken
// from TFX_MASTER_KEY, then from a private master.key next to path. Without
// either the backend is returned but reports itself unavailable.
func NewFileBackend(path, masterKey string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("secrets file path is required")
	}

	key, err := resolveMasterKey(masterKey, filepath.Join(filepath.Dir(path), "master.key"))
	if err != nil {
		return &FileBackend{path: path}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}
	return &FileBackend{path: path, masterKey: key}, nil
}

// Name implements Store.
func (f *FileBackend) Name() string { return "file" }

// Available implements Store.
func (f *FileBackend) Available() bool { return len(f.masterKey) > 0 }

// Get implements Store.
func (f *FileBackend) Get(ctx context.Context, key string) (string, error) {
	if !f.Available() {
		return "", errNoMasterKey
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	return value, nil
}

// Set implements Store.
func (f *FileBackend) Set(ctx context.Context, key, value string) error {
	return f.update(func(entries map[string]string) error {
		entries[key] = value
		return nil
	})
}

// Delete implements Store.
func (f *FileBackend) Delete(ctx context.Context, key string) error {
	return f.update(func(entries map[string]string) error {
		if _, ok := entries[key]; !ok {
			return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
		}
		delete(entries, key)
		return nil
	})
}

var errNoMasterKey = fmt.Errorf("%w: master key not available", ErrBackendUnavailable)

func (f *FileBackend) update(mutate func(map[string]string) error) error {
	if !f.Available() {
		return errNoMasterKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if err := mutate(entries); err != nil {
		return err
	}
	return f.write(entries)
}

// read returns the decrypted entries. A missing file is an empty store.
func (f *FileBackend) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	var sealed sealedFile
	if err := json.Unmarshal(raw, &sealed); err != nil {
		return nil, fmt.Errorf("secrets file %s is not valid: %w", f.path, err)
	}
	if sealed.Version != sealedVersion {
		return nil, fmt.Errorf("secrets file %s has unsupported version %d", f.path, sealed.Version)
	}

	aead, err := f.aead(sealed.Salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, sealed.Nonce, sealed.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong master key or corrupted file): %w", err)
	}
	defer clear(plaintext)

	entries := map[string]string{}
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, fmt.Errorf("secrets file %s decrypted to invalid data: %w", f.path, err)
	}
	return entries, nil
}

// write seals entries and replaces the file atomically.
func (f *FileBackend) write(entries map[string]string) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode secrets: %w", err)
	}
	defer clear(plaintext)

	sealed := sealedFile{Version: sealedVersion, Salt: make([]byte, saltLen)}
	if _, err := rand.Read(sealed.Salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	aead, err := f.aead(sealed.Salt)
	if err != nil {
		return err
	}
	sealed.Nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(sealed.Nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed.Ciphertext = aead.Seal(nil, sealed.Nonce, plaintext, nil)

	data, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("failed to encode secrets file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".secrets-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	// CreateTemp already uses 0600; keep it explicit for the rename target.
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to protect secrets file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileBackend) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(f.masterKey, salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// resolveMasterKey returns the first of: provided, TFX_MASTER_KEY, the
// contents of keyPath. keyPath must not be a symlink or readable by others.
func resolveMasterKey(provided, keyPath string) ([]byte, error) {
	if provided != "" {
		return []byte(provided), nil
	}
	if env := os.Getenv(MasterKeyEnv); env != "" {
		return []byte(env), nil
	}

	info, err := os.Lstat(keyPath)
	if err != nil {
		return nil, fmt.Errorf("master key not available (set %s or create %s)", MasterKeyEnv, keyPath)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%s is a symlink", keyPath)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return nil, fmt.Errorf("%s permissions too open (got %o, want 0600)", keyPath, perm)
	}
	return os.ReadFile(keyPath)
}
