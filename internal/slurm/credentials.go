// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slurm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/rna-engine/pkg/types"
)

// Credential key files under the secrets directory. The filename is the key
// name and the trimmed file contents are the value.
const (
	keyMailUser = "slurm-mail-user"
	keyAccount  = "slurm-account"
)

// LoadCredentials reads all files in dir and returns a map of filename to
// trimmed contents. A missing directory or missing files are not errors;
// an empty map comes back. Unreadable files produce a warning on stderr but
// do not abort.
func LoadCredentials(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credentials directory %s: %w", dir, err)
	}

	creds := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read credential %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			creds[name] = value
		}
	}

	return creds, nil
}

// ApplyCredentials fills unset SlurmConfig fields from the secrets
// directory. Values already present in the config win.
func ApplyCredentials(cfg *types.SlurmConfig, dir string) error {
	creds, err := LoadCredentials(dir)
	if err != nil {
		return err
	}
	if cfg.MailUser == "" {
		cfg.MailUser = creds[keyMailUser]
	}
	if cfg.Account == "" {
		cfg.Account = creds[keyAccount]
	}
	return nil
}
