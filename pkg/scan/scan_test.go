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

package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileog/pkg/progress"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeTree(t *testing.T, root string, files map[string]string) {
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func names(items []FileItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recorder) Report(ev progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestTypeFromExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want FileType
	}{
		{"pdf", TypeDocument},
		{".TXT", TypeDocument},
		{"jpeg", TypeImage},
		{"heic", TypeImage},
		{"mkv", TypeVideo},
		{"flac", TypeAudio},
		{"7z", TypeArchive},
		{"go", TypeCode},
		{"yml", TypeCode},
		{"", TypeOther},
		{"exe", TypeOther},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("ext_%s", tt.ext), func(t *testing.T) {
			assert.Equal(t, tt.want, TypeFromExtension(tt.ext))
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "gz", extension("backup.tar.gz"))
	assert.Equal(t, "", extension(".bashrc"))
	assert.Equal(t, "", extension("Makefile"))
	assert.Equal(t, "PNG", extension("photo.PNG"))
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Root: "/tmp", Ignore: []string{"[unterminated"}})
	require.Error(t, err)

	s, err := New(Options{Root: "/tmp/a/../b"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/b", s.opts.Root)
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"report.pdf":            "%PDF-1.4",
		"notes.txt":             "hello",
		".hidden":               "secret",
		"photos/cat.png":        "\x89PNG\r\n\x1a\n",
		"photos/.thumbs/a.jpg":  "x",
		"src/main.go":           "package main",
		"node_modules/lib/x.js": "x",
	})

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "recursive_visible",
			opts: Options{Recursive: true},
			want: []string{"x.js", "notes.txt", "cat.png", "report.pdf", "main.go"},
		},
		{
			name: "top_level_only",
			opts: Options{Recursive: false},
			want: []string{"notes.txt", "report.pdf"},
		},
		{
			name: "include_hidden",
			opts: Options{Recursive: true, IncludeHidden: true},
			want: []string{".hidden", "x.js", "notes.txt", "a.jpg", "cat.png", "report.pdf", "main.go"},
		},
		{
			name: "ignore_patterns",
			opts: Options{Recursive: true, Ignore: []string{"node_modules/**", "**/*.txt"}},
			want: []string{"cat.png", "report.pdf", "main.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Root = root
			s, err := New(tt.opts)
			require.NoError(t, err)

			items, err := s.Scan(testContext(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestScanItemFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.png": "\x89PNG\r\n\x1a\n0000",
		"b":     "plain text here",
	})

	s, err := New(Options{Root: root, DetectMIME: true})
	require.NoError(t, err)

	items, err := s.Scan(testContext(t), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	png := items[0]
	assert.NotEmpty(t, png.ID)
	assert.Equal(t, filepath.Join(root, "a.png"), png.Path)
	assert.Equal(t, "png", png.Extension)
	assert.Equal(t, TypeImage, png.FileType)
	assert.Equal(t, "image/png", png.MimeType)
	assert.Equal(t, int64(12), png.Size)
	assert.False(t, png.ModifiedAt.IsZero())

	plain := items[1]
	assert.Equal(t, "", plain.Extension)
	assert.Equal(t, TypeOther, plain.FileType)
	assert.Contains(t, plain.MimeType, "text/plain")
	assert.NotEqual(t, png.ID, plain.ID)

	descs := ToDescriptors(items)
	require.Len(t, descs, 2)
	assert.Equal(t, png.Path, descs[0].Path)
	assert.Equal(t, png.Name, descs[0].Name)
	assert.Equal(t, png.Size, descs[0].Size)
}

func TestScanProgress(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 25; i++ {
		files[fmt.Sprintf("dir%d/f%02d.txt", i%3, i)] = "x"
	}
	writeTree(t, root, files)

	s, err := New(Options{Root: root, Recursive: true})
	require.NoError(t, err)

	rec := &recorder{}
	items, err := s.Scan(testContext(t), rec)
	require.NoError(t, err)
	require.Len(t, items, 25)

	require.Len(t, rec.events, 4)
	assert.Equal(t, progress.KindStarted, rec.events[0].Event)
	assert.Equal(t, progress.KindScanning, rec.events[1].Event)
	assert.Equal(t, progress.KindScanning, rec.events[2].Event)
	assert.ElementsMatch(t, []int{10, 20}, []int{rec.events[1].CompletedCount, rec.events[2].CompletedCount})
	assert.Zero(t, rec.events[1].TotalCount, "total is unknown while walking")
	assert.Equal(t, progress.Event{Event: progress.KindCompleted, CompletedCount: 25, TotalCount: 25, Percentage: 100}, rec.events[3])
}

func TestScanErrors(t *testing.T) {
	ctx := testContext(t)

	s, err := New(Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	_, err = s.Scan(ctx, nil)
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	s, err = New(Options{Root: file})
	require.NoError(t, err)
	_, err = s.Scan(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	empty, err := New(Options{Root: t.TempDir()})
	require.NoError(t, err)
	items, err := empty.Scan(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real.txt": "x"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	s, err := New(Options{Root: root})
	require.NoError(t, err)
	items, err := s.Scan(testContext(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, names(items))
}
