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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/duplicate"
	"github.com/walteh/fileog/pkg/progress"
	"gitlab.com/tozd/go/errors"
)

// progressEvery is how many files pass between scanning events.
const progressEvery = 10

// 📄 FileItem is one regular file found under the scan root
type FileItem struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension,omitempty"`
	Size       int64     `json:"size"`
	FileType   FileType  `json:"file_type"`
	MimeType   string    `json:"mime_type,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Options controls a single Scan.
type Options struct {
	// Root is the directory to list
	Root string
	// Recursive descends into subdirectories
	Recursive bool
	// IncludeHidden keeps entries whose name starts with "."
	IncludeHidden bool
	// Ignore holds doublestar patterns matched against slash separated paths relative to Root
	Ignore []string
	// DetectMIME sniffs each file's content type
	DetectMIME bool
}

// 🔍 Scanner lists files under a root directory
type Scanner struct {
	opts  Options
	newID func() string
}

func New(opts Options) (*Scanner, error) {
	if opts.Root == "" {
		return nil, errors.New("scan root is required")
	}
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	opts.Root = filepath.Clean(opts.Root)
	return &Scanner{
		opts:  opts,
		newID: func() string { return uuid.New().String() },
	}, nil
}

// Scan walks the root and returns its files sorted by path. Unreadable
// entries are skipped. The walk is concurrent, so scanning events report
// whichever file crossed each threshold.
func (s *Scanner) Scan(ctx context.Context, r progress.Reporter) ([]FileItem, error) {
	r = progress.OrNop(r)
	logger := zerolog.Ctx(ctx).With().Str("root", s.opts.Root).Logger()

	info, err := os.Stat(s.opts.Root)
	if err != nil {
		return nil, errors.Errorf("reading scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("scan root %s is not a directory", s.opts.Root)
	}

	r.Report(progress.Event{Event: progress.KindStarted})

	var (
		mu    sync.Mutex
		items []FileItem
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, s.opts.Root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logger.Debug().Err(err).Str("path", p).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() && p != s.opts.Root {
				return fs.SkipDir
			}
			return nil
		}
		if p == s.opts.Root {
			return nil
		}

		if skip, reason := s.skip(p, d); skip {
			logger.Trace().Str("path", p).Str("reason", reason).Msg("skipping")
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		item, err := s.item(ctx, p, d)
		if err != nil {
			logger.Debug().Err(err).Str("path", p).Msg("skipping unreadable file")
			return nil
		}

		mu.Lock()
		items = append(items, item)
		count := len(items)
		mu.Unlock()

		if count%progressEvery == 0 {
			r.Report(progress.Event{Event: progress.KindScanning, CurrentFile: p, CompletedCount: count})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", s.opts.Root, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	if items == nil {
		items = make([]FileItem, 0)
	}

	r.Report(progress.Done(len(items)))
	logger.Debug().Int("files", len(items)).Msg("scan complete")
	return items, nil
}

func (s *Scanner) skip(p string, d fs.DirEntry) (bool, string) {
	if !s.opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
		return true, "hidden"
	}
	if d.IsDir() && !s.opts.Recursive {
		return true, "not recursive"
	}
	if !d.IsDir() && !d.Type().IsRegular() {
		return true, "not a regular file"
	}

	rel, err := filepath.Rel(s.opts.Root, p)
	if err != nil {
		return false, ""
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true, "ignored by " + pattern
		}
	}
	return false, ""
}

func (s *Scanner) item(ctx context.Context, p string, d fs.DirEntry) (FileItem, error) {
	info, err := d.Info()
	if err != nil {
		return FileItem{}, err
	}

	name := d.Name()
	ext := extension(name)
	item := FileItem{
		ID:         s.newID(),
		Path:       p,
		Name:       name,
		Extension:  ext,
		Size:       info.Size(),
		FileType:   TypeFromExtension(ext),
		ModifiedAt: info.ModTime(),
	}

	if s.opts.DetectMIME {
		mtype, err := mimetype.DetectFile(p)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", p).Msg("mime detection failed")
		} else {
			item.MimeType = mtype.String()
		}
	}

	return item, nil
}

// Descriptor converts the item for duplicate detection.
func (f FileItem) Descriptor() duplicate.FileDescriptor {
	return duplicate.FileDescriptor{Path: f.Path, Name: f.Name, Size: f.Size}
}

func ToDescriptors(items []FileItem) []duplicate.FileDescriptor {
	out := make([]duplicate.FileDescriptor, 0, len(items))
	for _, item := range items {
		out = append(out, item.Descriptor())
	}
	return out
}
