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

// Package duplicate groups files by the digest of their content.
package duplicate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/digest"
	"github.com/walteh/fileog/pkg/progress"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileDescriptor is a candidate file handed to the finder.
// A zero Size is read from disk when the file lands in a group.
type FileDescriptor struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// 👯 Group is a set of files sharing the same content digest.
// Files always holds two or more paths.
type Group struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Size  int64    `json:"size"`
}

// 🔍 Finder detects duplicate files
type Finder struct {
	hasher *digest.Hasher
}

// NewFinder creates a Finder hashing with h.
func NewFinder(h *digest.Hasher) (*Finder, error) {
	if h == nil {
		return nil, errors.New("hasher is required")
	}
	return &Finder{hasher: h}, nil
}

// Find hashes every file and returns the groups with at least two distinct
// members. Paths repeated in files (after cleaning) are hashed once. Files
// that cannot be read are skipped. Groups are ordered by the position of
// their first member in files, members keep their input order.
func (f *Finder) Find(ctx context.Context, files []FileDescriptor, r progress.Reporter) []Group {
	logger := zerolog.Ctx(ctx)
	r = progress.OrNop(r)
	total := len(files)

	type bucket struct {
		hash  string
		files []string
		size  int64
	}
	var order []*bucket
	byHash := make(map[string]*bucket)
	seen := make(map[string]struct{}, total)
	skipped, repeated := 0, 0

	for i, file := range files {
		r.Report(progress.Step(progress.KindHashing, file.Name, i, total))

		path := filepath.Clean(file.Path)
		if _, ok := seen[path]; ok {
			repeated++
			continue
		}
		seen[path] = struct{}{}

		sum, err := f.hasher.File(path)
		if err != nil {
			skipped++
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			continue
		}

		b, ok := byHash[sum]
		if !ok {
			b = &bucket{hash: sum, size: file.Size}
			byHash[sum] = b
			order = append(order, b)
		}
		b.files = append(b.files, path)
	}

	groups := make([]Group, 0)
	for _, b := range order {
		if len(b.files) < 2 {
			continue
		}
		if b.size <= 0 {
			b.size = sizeOnDisk(ctx, b.files[0])
		}
		groups = append(groups, Group{Hash: b.hash, Files: b.files, Size: b.size})
	}

	r.Report(progress.Done(total))

	logger.Debug().
		Int("files", total).
		Int("skipped", skipped).
		Int("repeated", repeated).
		Int("groups", len(groups)).
		Str("algorithm", string(f.hasher.Algorithm())).
		Msg("duplicate search complete")

	return groups
}

func sizeOnDisk(ctx context.Context, path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("reading size of duplicate")
		return 0
	}
	return info.Size()
}

// Wasted returns the bytes that would be freed by keeping one file per group.
func Wasted(groups []Group) int64 {
	var total int64
	for _, g := range groups {
		total += g.Size * int64(len(g.Files)-1)
	}
	return total
}
