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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/fileog/pkg/operation"
	"github.com/walteh/fileog/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// ✏️ RenameRule replaces every occurrence of From with To in matching file names
type RenameRule struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	// Glob limits the rule to names matching a doublestar pattern, empty matches all
	Glob string `json:"glob,omitempty" yaml:"glob,omitempty"`
}

// Match reports whether the rule applies to name.
func (r RenameRule) Match(name string) bool {
	if r.Glob == "" {
		return true
	}
	ok, _ := doublestar.Match(r.Glob, name)
	return ok
}

func ValidateRules(rules []RenameRule) error {
	for i, rule := range rules {
		if rule.From == "" {
			return errors.Errorf("rule %d: from is required", i)
		}
		if rule.Glob != "" && !doublestar.ValidatePattern(rule.Glob) {
			return errors.Errorf("rule %d: invalid glob %q", i, rule.Glob)
		}
	}
	return nil
}

// ApplyRules runs every matching rule over name in order and returns the
// result with the number of replacements made.
func ApplyRules(name string, rules []RenameRule) (string, int) {
	count := 0
	current := name
	for _, rule := range rules {
		if rule.From == "" || !rule.Match(current) {
			continue
		}
		if n := strings.Count(current, rule.From); n > 0 {
			count += n
			current = strings.ReplaceAll(current, rule.From, rule.To)
		}
	}
	return current, count
}

// BuildRenames plans a rename inside the same directory for every item
// whose name the rules change. Names that would end up empty or contain a
// path separator are rejected.
func BuildRenames(items []scan.FileItem, rules []RenameRule) ([]operation.PlannedOperation, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	ops := make([]operation.PlannedOperation, 0)
	for _, item := range items {
		renamed, n := ApplyRules(item.Name, rules)
		if n == 0 || renamed == item.Name {
			continue
		}
		if renamed == "" || strings.ContainsRune(renamed, filepath.Separator) || strings.Contains(renamed, "/") {
			return nil, errors.Errorf("renaming %s: invalid result %q", item.Path, renamed)
		}
		ops = append(ops, operation.PlannedOperation{
			FileID:      item.ID,
			FileName:    item.Name,
			Kind:        operation.KindRename,
			Source:      item.Path,
			Destination: filepath.Join(filepath.Dir(item.Path), renamed),
		})
	}
	return ops, nil
}

// BuildMoves plans a move of each item to <root>/<category>/<name>.
// categories maps item IDs to externally assigned categories; items without
// one fall back to their scanned file type.
func BuildMoves(items []scan.FileItem, root string, categories map[string]string) ([]operation.PlannedOperation, error) {
	if root == "" {
		return nil, errors.New("target root is required")
	}
	root = filepath.Clean(root)

	ops := make([]operation.PlannedOperation, 0, len(items))
	for _, item := range items {
		category := strings.TrimSpace(categories[item.ID])
		if category == "" {
			category = string(item.FileType)
		}
		if category == "" {
			category = string(scan.TypeOther)
		}
		if category == "." || category == ".." || strings.ContainsAny(category, `/\`) {
			return nil, errors.Errorf("invalid category %q for %s", category, item.Path)
		}

		dest := filepath.Join(root, category, item.Name)
		if dest == item.Path {
			continue
		}
		ops = append(ops, operation.PlannedOperation{
			FileID:      item.ID,
			FileName:    item.Name,
			Kind:        operation.KindMove,
			Source:      item.Path,
			Destination: dest,
			Category:    category,
		})
	}
	return ops, nil
}
