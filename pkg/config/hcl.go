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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/fileog/pkg/digest"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

// hclConfig mirrors Config with optional attributes so unset values keep their defaults.
type hclConfig struct {
	DataDir       *string  `hcl:"data_dir,optional"`
	Database      *string  `hcl:"database,optional"`
	BackupDir     *string  `hcl:"backup_dir,optional"`
	HashAlgorithm *string  `hcl:"hash_algorithm,optional"`
	HistoryLimit  *int     `hcl:"history_limit,optional"`
	Scan          *hclScan `hcl:"scan,block"`
}

type hclScan struct {
	IncludeHidden *bool    `hcl:"include_hidden,optional"`
	Recursive     *bool    `hcl:"recursive,optional"`
	Ignore        []string `hcl:"ignore,optional"`
	DetectMIME    *bool    `hcl:"detect_mime,optional"`
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := raw.apply(Default())
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (h hclConfig) apply(cfg *Config) *Config {
	set(&cfg.DataDir, h.DataDir)
	set(&cfg.Database, h.Database)
	set(&cfg.BackupDir, h.BackupDir)
	set(&cfg.HistoryLimit, h.HistoryLimit)
	if h.HashAlgorithm != nil {
		cfg.HashAlgorithm = digest.Algorithm(*h.HashAlgorithm)
	}
	if h.Scan != nil {
		set(&cfg.Scan.IncludeHidden, h.Scan.IncludeHidden)
		set(&cfg.Scan.Recursive, h.Scan.Recursive)
		set(&cfg.Scan.DetectMIME, h.Scan.DetectMIME)
		if h.Scan.Ignore != nil {
			cfg.Scan.Ignore = h.Scan.Ignore
		}
	}
	return cfg
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
