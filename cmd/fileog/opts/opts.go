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

package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/config"
	"github.com/walteh/fileog/pkg/digest"
	"github.com/walteh/fileog/pkg/fileops"
	"github.com/walteh/fileog/pkg/history"
	"github.com/walteh/fileog/pkg/log"
	"github.com/walteh/fileog/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts is shared by every subcommand. It is filled in once flags are parsed.
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Quiet      bool

	Config *config.Config
	Store  history.Store
	Files  fileops.FileManager
}

// Init loads configuration and wires the history store. The returned context
// carries the console logger for out.
func (o *RootOpts) Init(ctx context.Context, out io.Writer) (context.Context, error) {
	path := o.ConfigFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return ctx, errors.Errorf("loading config: %w", err)
	}

	store, err := history.New(cfg.Database)
	if err != nil {
		return ctx, errors.Errorf("creating history store: %w", err)
	}

	o.Config = cfg
	o.Store = store
	o.Files = fileops.New()

	return log.NewContext(ctx, log.New(out, *zerolog.Ctx(ctx))), nil
}

// Close releases the history store.
func (o *RootOpts) Close() error {
	if o.Store == nil {
		return nil
	}
	return o.Store.Close()
}

func (o *RootOpts) options() operation.Options {
	return operation.Options{
		Log:       o.Store,
		Files:     o.Files,
		BackupDir: o.Config.BackupDir,
	}
}

func (o *RootOpts) Executor() (*operation.Executor, error) {
	return operation.NewExecutor(o.options())
}

func (o *RootOpts) Undoer() (*operation.Undoer, error) {
	return operation.NewUndoer(o.options())
}

func (o *RootOpts) Hasher() (*digest.Hasher, error) {
	return digest.New(o.Config.HashAlgorithm)
}

// PurgeBackups removes every file kept for undoing deletes.
func (o *RootOpts) PurgeBackups(ctx context.Context) error {
	dir := filepath.Clean(o.Config.BackupDir)
	if dir == "" || dir == "/" || dir == "." {
		return errors.Errorf("refusing to purge backup directory %q", dir)
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("purging backups")
	if err := os.RemoveAll(dir); err != nil {
		return errors.Errorf("purging backups: %w", err)
	}
	return nil
}
