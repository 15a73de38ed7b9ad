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
	"fmt"
	"path/filepath"

	"github.com/tombee/tfx/internal/config"
)

// Open returns the Store selected by cfg.Backend:
//   - keychain: the OS keychain, failing if it is unreachable
//   - file: the encrypted file at cfg.FilePath (default <config dir>/secrets.enc)
//   - auto: the keychain when reachable, the encrypted file otherwise
func Open(cfg config.SecretsConfig) (Store, error) {
	switch cfg.Backend {
	case config.SecretsBackendKeychain:
		kc := NewKeychainBackend()
		if !kc.Available() {
			return nil, fmt.Errorf("%w: keychain service unavailable", ErrBackendUnavailable)
		}
		return kc, nil

	case config.SecretsBackendFile:
		return openFile(cfg.FilePath)

	case config.SecretsBackendAuto, "":
		if kc := NewKeychainBackend(); kc.Available() {
			return kc, nil
		}
		return openFile(cfg.FilePath)

	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Backend)
	}
}

func openFile(path string) (Store, error) {
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(dir, "secrets.enc")
	}

	fb, err := NewFileBackend(path, "")
	if err != nil {
		return nil, err
	}
	if !fb.Available() {
		return nil, fmt.Errorf("%w: no keychain and no master key for %s (set %s)", ErrBackendUnavailable, path, MasterKeyEnv)
	}
	return fb, nil
}
