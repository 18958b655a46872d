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

package plan

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/fileog/pkg/operation"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📋 File is the on-disk form of a batch of planned operations
type File struct {
	Operations []operation.PlannedOperation `json:"operations" yaml:"operations"`
}

// Load reads a plan from a .yaml, .yml or .json file. Relative source and
// destination paths are resolved against the plan file's directory.
func Load(path string) ([]operation.PlannedOperation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	ops, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Errorf("loading plan %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Errorf("resolving plan directory: %w", err)
	}
	for i := range ops {
		ops[i].Source = resolve(base, ops[i].Source)
		ops[i].Destination = resolve(base, ops[i].Destination)
	}
	return ops, nil
}

// Decode parses and validates a plan in the given format ("yaml", "yml" or "json").
func Decode(r io.Reader, format string) ([]operation.PlannedOperation, error) {
	var f File

	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("decoding yaml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Errorf("decoding json: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported plan format %q", format)
	}

	for i, op := range f.Operations {
		if err := op.Validate(); err != nil {
			return nil, errors.Errorf("operation %d: %w", i, err)
		}
	}
	if f.Operations == nil {
		f.Operations = make([]operation.PlannedOperation, 0)
	}
	return f.Operations, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
