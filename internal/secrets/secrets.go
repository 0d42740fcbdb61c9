// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads judge API keys from a directory of plain-text
// files, one file per provider: the filename is the key name and the
// file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// knownKeys lists the key files the judge providers read.
var knownKeys = []string{
	"deepseek-api-key",
	"openai-api-key",
	"anthropic-api-key",
}

// KeyFor returns the key file name that holds the provider's API key.
func KeyFor(provider string) string {
	return provider + "-api-key"
}

// Load reads the known key files from dir and returns a map of key name
// to trimmed contents. A missing directory or missing key files are not
// errors; Load returns a map of whatever was found. An unreadable file
// produces a warning on stderr but does not abort.
func Load(dir string) (map[string]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("checking secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, name := range knownKeys {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
