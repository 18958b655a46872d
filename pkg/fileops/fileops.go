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

package fileops

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager performs the filesystem mutations behind every operation
type FileManager interface {
	// Exists reports whether path is present (symlinks are not followed).
	Exists(ctx context.Context, path string) (bool, error)

	// Rename moves src to dst. It refuses to replace an existing dst.
	Rename(ctx context.Context, src, dst string) error

	// Copy duplicates the bytes of src into a new file at dst.
	Copy(ctx context.Context, src, dst string) error

	// Remove deletes a single file.
	Remove(ctx context.Context, path string) error

	// Relocate moves src to dst even across devices.
	Relocate(ctx context.Context, src, dst string) error
}

// 🔧 Manager implements FileManager on the local disk
type Manager struct {
	dirMode fs.FileMode
}

var _ FileManager = (*Manager)(nil)

// 🏭 New creates a new local filesystem manager
func New() *Manager {
	return &Manager{dirMode: 0o755}
}

func (m *Manager) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) Rename(ctx context.Context, src, dst string) error {
	if err := m.prepareDestination(src, dst, "rename"); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Errorf("renaming file: %w", err)
	}
	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("renamed")
	return nil
}

func (m *Manager) Copy(ctx context.Context, src, dst string) error {
	if err := m.prepareDestination(src, dst, "copy"); err != nil {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("copied")
	return nil
}

func (m *Manager) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	zerolog.Ctx(ctx).Trace().Str("path", path).Msg("removed")
	return nil
}

func (m *Manager) Relocate(ctx context.Context, src, dst string) error {
	if err := m.prepareDestination(src, dst, "relocate"); err != nil {
		return err
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.Errorf("relocating file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("cross-device relocation, falling back to copy")
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return errors.Errorf("removing relocated source: %w", err)
	}
	return nil
}

// prepareDestination checks that src exists, that dst is free and that
// dst's parent directory exists.
func (m *Manager) prepareDestination(src, dst, op string) error {
	if _, err := os.Lstat(src); err != nil {
		return errors.Errorf("checking source: %w", err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return errors.Errorf("checking destination: %w", &fs.PathError{Op: op, Path: dst, Err: fs.ErrExist})
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("checking destination: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), m.dirMode); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}
	if info.IsDir() {
		return errors.Errorf("copying file: %w", &fs.PathError{Op: "copy", Path: src, Err: syscall.EISDIR})
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(dst)
		return errors.Errorf("copying file content: %w", err)
	}
	if err := destination.Close(); err != nil {
		os.Remove(dst)
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}
