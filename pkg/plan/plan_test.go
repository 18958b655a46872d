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

package plan_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileog/pkg/operation"
	"github.com/walteh/fileog/pkg/plan"
	"github.com/walteh/fileog/pkg/scan"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		input   string
		want    []operation.PlannedOperation
		wantErr string
	}{
		{
			name:   "yaml",
			format: "yaml",
			input: `
operations:
  - file_id: "1"
    file_name: a.txt
    operation_type: move
    source: /in/a.txt
    destination: /out/docs/a.txt
    category: docs
  - file_name: b.txt
    operation_type: delete
    source: /in/b.txt
`,
			want: []operation.PlannedOperation{
				{FileID: "1", FileName: "a.txt", Kind: operation.KindMove, Source: "/in/a.txt", Destination: "/out/docs/a.txt", Category: "docs"},
				{FileName: "b.txt", Kind: operation.KindDelete, Source: "/in/b.txt"},
			},
		},
		{
			name:   "json",
			format: "json",
			input:  `{"operations":[{"file_name":"a.txt","operation_type":"copy","source":"/a.txt","destination":"/b.txt"}]}`,
			want: []operation.PlannedOperation{
				{FileName: "a.txt", Kind: operation.KindCopy, Source: "/a.txt", Destination: "/b.txt"},
			},
		},
		{
			name:   "empty_yaml",
			format: "yml",
			input:  "",
			want:   []operation.PlannedOperation{},
		},
		{
			name:    "missing_destination",
			format:  "yaml",
			input:   "operations:\n  - operation_type: rename\n    source: /a\n",
			wantErr: "operation 0: destination path is required",
		},
		{
			name:    "unknown_kind",
			format:  "json",
			input:   `{"operations":[{"operation_type":"shred","source":"/a"}]}`,
			wantErr: "unknown operation type",
		},
		{
			name:    "unknown_field",
			format:  "yaml",
			input:   "operations: []\nextra: true\n",
			wantErr: "decoding yaml",
		},
		{
			name:    "unsupported_format",
			format:  "toml",
			input:   "",
			wantErr: "unsupported plan format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := plan.Decode(strings.NewReader(tt.input), tt.format)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
operations:
  - operation_type: move
    source: inbox/a.txt
    destination: /abs/a.txt
  - operation_type: delete
    source: b.txt
`), 0o644))

	ops, err := plan.Load(path)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, filepath.Join(dir, "inbox", "a.txt"), ops[0].Source)
	assert.Equal(t, "/abs/a.txt", ops[0].Destination)
	assert.Equal(t, filepath.Join(dir, "b.txt"), ops[1].Source)
	assert.Empty(t, ops[1].Destination)

	_, err = plan.Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestApplyRules(t *testing.T) {
	rules := []plan.RenameRule{
		{From: " ", To: "_"},
		{From: "IMG", To: "photo", Glob: "*.jpg"},
		{From: "draft", To: "final", Glob: "*.{md,txt}"},
	}

	tests := []struct {
		in    string
		want  string
		count int
	}{
		{"my file name.txt", "my_file_name.txt", 2},
		{"IMG 001.jpg", "photo_001.jpg", 2},
		{"IMG_001.png", "IMG_001.png", 0},
		{"draft draft.md", "final_final.md", 3},
		{"plain.go", "plain.go", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, n := plan.ApplyRules(tt.in, rules)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestValidateRules(t *testing.T) {
	require.NoError(t, plan.ValidateRules([]plan.RenameRule{{From: "a"}}))
	require.Error(t, plan.ValidateRules([]plan.RenameRule{{From: ""}}))
	require.Error(t, plan.ValidateRules([]plan.RenameRule{{From: "a", Glob: "[oops"}}))
}

func TestBuildRenames(t *testing.T) {
	items := []scan.FileItem{
		{ID: "1", Path: "/photos/IMG 1.jpg", Name: "IMG 1.jpg"},
		{ID: "2", Path: "/photos/keep.jpg", Name: "keep.jpg"},
	}

	ops, err := plan.BuildRenames(items, []plan.RenameRule{{From: " ", To: "-"}})
	require.NoError(t, err)
	assert.Equal(t, []operation.PlannedOperation{
		{FileID: "1", FileName: "IMG 1.jpg", Kind: operation.KindRename, Source: "/photos/IMG 1.jpg", Destination: "/photos/IMG-1.jpg"},
	}, ops)

	_, err = plan.BuildRenames(items, []plan.RenameRule{{From: " ", To: "/"}})
	require.Error(t, err, "separators are not allowed in new names")

	_, err = plan.BuildRenames(items, []plan.RenameRule{{From: ""}})
	require.Error(t, err)
}

func TestBuildMoves(t *testing.T) {
	items := []scan.FileItem{
		{ID: "1", Path: "/in/report.pdf", Name: "report.pdf", FileType: scan.TypeDocument},
		{ID: "2", Path: "/in/cat.png", Name: "cat.png", FileType: scan.TypeImage},
		{ID: "3", Path: "/out/image/dog.png", Name: "dog.png", FileType: scan.TypeImage},
		{ID: "4", Path: "/in/mystery", Name: "mystery"},
	}

	ops, err := plan.BuildMoves(items, "/out/", map[string]string{"1": "Finance"})
	require.NoError(t, err)
	assert.Equal(t, []operation.PlannedOperation{
		{FileID: "1", FileName: "report.pdf", Kind: operation.KindMove, Source: "/in/report.pdf", Destination: "/out/Finance/report.pdf", Category: "Finance"},
		{FileID: "2", FileName: "cat.png", Kind: operation.KindMove, Source: "/in/cat.png", Destination: "/out/image/cat.png", Category: "image"},
		{FileID: "4", FileName: "mystery", Kind: operation.KindMove, Source: "/in/mystery", Destination: "/out/other/mystery", Category: "other"},
	}, ops, "files already in place are not moved")

	_, err = plan.BuildMoves(items, "", nil)
	require.Error(t, err)

	_, err = plan.BuildMoves(items, "/out", map[string]string{"1": "../escape"})
	require.Error(t, err)
}
