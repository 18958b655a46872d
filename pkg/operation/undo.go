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

package operation

import (
	"context"

	"github.com/rs/zerolog"
)

// ⏪ Undoer reverses recently completed operations
type Undoer struct {
	opts Options
}

// 🏭 NewUndoer creates a new undoer with the given options
func NewUndoer(opts Options) (*Undoer, error) {
	if err := opts.validate(false); err != nil {
		return nil, err
	}
	return &Undoer{opts: opts}, nil
}

// Undo reverses up to steps of the most recent completed operations, newest
// first. Items whose paths are missing, or whose reversal fails, are skipped
// and stay completed so a later call can retry them. The returned slice
// holds only the operations that were reversed.
func (u *Undoer) Undo(ctx context.Context, steps int) ([]Operation, error) {
	undone := make([]Operation, 0)
	if steps <= 0 {
		return undone, nil
	}

	candidates, err := u.opts.Log.RecentCompleted(ctx, steps)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	for _, op := range candidates {
		oplog := logger.With().
			Str("operation_id", op.ID).
			Str("kind", op.Kind.String()).
			Logger()

		ok, err := u.reverse(ctx, op)
		if err != nil {
			oplog.Warn().Err(err).Msg("failed to undo operation")
			continue
		}
		if !ok {
			continue
		}

		if err := u.opts.Log.MarkUndone(ctx, op.ID); err != nil {
			oplog.Error().Err(err).Msg("operation reversed but history not updated")
		}
		op.Status = Undone()
		undone = append(undone, op)
		oplog.Debug().Msg("operation undone")
	}

	return undone, nil
}

// reverse applies the inverse of op. It returns false without an error when
// the item has to be skipped.
func (u *Undoer) reverse(ctx context.Context, op Operation) (bool, error) {
	logger := zerolog.Ctx(ctx).With().Str("operation_id", op.ID).Logger()
	files := u.opts.Files

	switch op.Kind {
	case KindMove, KindRename:
		if !u.present(ctx, op.DestinationPath) {
			logger.Debug().Str("path", op.DestinationPath).Msg("destination missing, skipping")
			return false, nil
		}
		if u.present(ctx, op.SourcePath) {
			logger.Warn().Str("path", op.SourcePath).Msg("original location is occupied, skipping")
			return false, nil
		}
		return true, files.Rename(ctx, op.DestinationPath, op.SourcePath)

	case KindCopy:
		if !u.present(ctx, op.DestinationPath) {
			logger.Debug().Str("path", op.DestinationPath).Msg("copy missing, skipping")
			return false, nil
		}
		return true, files.Remove(ctx, op.DestinationPath)

	case KindDelete:
		if !u.present(ctx, op.BackupPath) {
			logger.Debug().Str("path", op.BackupPath).Msg("backup missing, skipping")
			return false, nil
		}
		if u.present(ctx, op.SourcePath) {
			logger.Warn().Str("path", op.SourcePath).Msg("original location is occupied, skipping")
			return false, nil
		}
		return true, files.Relocate(ctx, op.BackupPath, op.SourcePath)

	default:
		logger.Warn().Msg("unsupported operation type, skipping")
		return false, nil
	}
}

// present treats empty paths and stat errors as absent.
func (u *Undoer) present(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	ok, err := u.opts.Files.Exists(ctx, path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("checking path")
		return false
	}
	return ok
}
