// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from a dotenv file. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key, brave-api-key,
// ncbi-api-key, ncbi-email.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Well-known secret names. Each has a file form (used under .secrets/) and
// an environment form (used in the process env and in .env files).
var (
	OpenAIKey    = Name{File: "openai-api-key", Env: "OPENAI_API_KEY"}
	AnthropicKey = Name{File: "anthropic-api-key", Env: "ANTHROPIC_API_KEY"}
	BraveKey     = Name{File: "brave-api-key", Env: "BRAVE_SEARCH_API_KEY"}
	NCBIKey      = Name{File: "ncbi-api-key", Env: "NCBI_API_KEY"}
	NCBIEmail    = Name{File: "ncbi-email", Env: "NCBI_EMAIL"}
)

// Name pairs the file and environment spellings of one secret.
type Name struct {
	File string
	Env  string
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
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
			slog.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv parses a dotenv file without modifying the process
// environment. A missing file yields an empty map.
func LoadDotEnv(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, nil
}

// Store resolves secrets from, in order of precedence: the process
// environment, a dotenv map, and a secrets directory map.
type Store struct {
	Files  map[string]string
	DotEnv map[string]string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Get returns the first non-empty value for n, or "".
func (s Store) Get(n Name) string {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(n.Env)); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.DotEnv[n.Env]); v != "" {
		return v
	}
	return s.Files[n.File]
}

// Names lists the secret names that resolve to a value, for startup
// diagnostics. Values are never returned.
func (s Store) Names() []string {
	var names []string
	for _, n := range []Name{OpenAIKey, AnthropicKey, BraveKey, NCBIKey, NCBIEmail} {
		if s.Get(n) != "" {
			names = append(names, n.File)
		}
	}
	return names
}
