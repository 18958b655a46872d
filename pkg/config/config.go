// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/digest"
	"github.com/walteh/fileog/pkg/history"
	"github.com/walteh/fileog/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

const appName = "fileog"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔍 ScanConfig holds the defaults applied to directory scans
type ScanConfig struct {
	IncludeHidden bool     `json:"include_hidden" yaml:"include_hidden" toml:"include_hidden"`
	Recursive     bool     `json:"recursive" yaml:"recursive" toml:"recursive"`
	Ignore        []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore"`
	DetectMIME    bool     `json:"detect_mime" yaml:"detect_mime" toml:"detect_mime"`
}

// 📚 Config represents the complete configuration
type Config struct {
	DataDir       string           `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	Database      string           `json:"database" yaml:"database" toml:"database"`
	BackupDir     string           `json:"backup_dir" yaml:"backup_dir" toml:"backup_dir"`
	HashAlgorithm digest.Algorithm `json:"hash_algorithm" yaml:"hash_algorithm" toml:"hash_algorithm"`
	HistoryLimit  int              `json:"history_limit" yaml:"history_limit" toml:"history_limit"`
	Scan          ScanConfig       `json:"scan" yaml:"scan" toml:"scan"`

	location string
}

// Default returns the configuration used when no file is present, before
// Validate fills in the directories.
func Default() *Config {
	return &Config{
		HashAlgorithm: digest.SHA256,
		HistoryLimit:  history.DefaultLimit,
		Scan: ScanConfig{
			Recursive: true,
		},
	}
}

// DefaultPath is where the CLI looks for a config file when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// 🎯 Load loads the configuration from a file. A missing file is not an
// error: the defaults are validated and returned instead.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug().Str("path", path).Msg("no config file, using defaults")
		cfg := Default()
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating config: %w", err)
		}
		return cfg, nil
	} else if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// 🔍 Validate fills defaults, cleans paths and rejects bad values
func (cfg *Config) Validate() error {
	alg, err := digest.ParseAlgorithm(string(cfg.HashAlgorithm))
	if err != nil {
		return errors.Errorf("hash_algorithm: %w", err)
	}
	cfg.HashAlgorithm = alg

	if cfg.HistoryLimit < 0 {
		return errors.Errorf("history_limit must not be negative, got %d", cfg.HistoryLimit)
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}

	for _, pattern := range cfg.Scan.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("scan.ignore: invalid pattern %q", pattern)
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	cfg.DataDir = filepath.Clean(cfg.DataDir)

	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, appName+".db")
	}
	cfg.Database = filepath.Clean(cfg.Database)

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.DataDir, "backups")
	}
	cfg.BackupDir = filepath.Clean(cfg.BackupDir)

	return nil
}

// Location is the file the config was read from, empty for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// ScanOptions applies the scan defaults to a root directory.
func (cfg *Config) ScanOptions(root string) scan.Options {
	return scan.Options{
		Root:          root,
		Recursive:     cfg.Scan.Recursive,
		IncludeHidden: cfg.Scan.IncludeHidden,
		Ignore:        append([]string(nil), cfg.Scan.Ignore...),
		DetectMIME:    cfg.Scan.DetectMIME,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("db=%s backups=%s hash=%s", cfg.Database, cfg.BackupDir, cfg.HashAlgorithm)
}
