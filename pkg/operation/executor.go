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
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/fileops"
	"github.com/walteh/fileog/pkg/progress"
	"gitlab.com/tozd/go/errors"
)

// 📚 Log is the durable ledger the executor and undoer write to
type Log interface {
	// Append persists a new record.
	Append(ctx context.Context, op Operation) error
	// RecentCompleted returns up to limit completed records, newest first.
	RecentCompleted(ctx context.Context, limit int) ([]Operation, error)
	// MarkUndone transitions a completed record to undone. Repeats are no-ops.
	MarkUndone(ctx context.Context, id string) error
}

// 🔧 Options contains the collaborators of the executor and undoer
type Options struct {
	// Log records every attempted operation
	Log Log
	// Files applies the filesystem mutations
	Files fileops.FileManager
	// BackupDir receives files before they are deleted
	BackupDir string
	// Now is the clock, defaults to time.Now
	Now func() time.Time
	// NewID generates operation and batch ids, defaults to uuid v4
	NewID func() string
}

func (o *Options) validate(needBackups bool) error {
	if o.Log == nil {
		return errors.Errorf("log is required")
	}
	if o.Files == nil {
		return errors.Errorf("file manager is required")
	}
	if needBackups && o.BackupDir == "" {
		return errors.Errorf("backup directory is required")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
	return nil
}

// 🏃 Executor applies planned operations to the filesystem
type Executor struct {
	opts Options
}

// 🏭 NewExecutor creates a new executor with the given options
func NewExecutor(opts Options) (*Executor, error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	return &Executor{opts: opts}, nil
}

// Execute applies planned in order, one at a time. Every item yields one
// Operation in the result, in the same order, whether it succeeded or not.
// All items share a freshly generated batch id. Failure to persist a record
// is logged and does not change the result.
func (e *Executor) Execute(ctx context.Context, planned []PlannedOperation, r progress.Reporter) []Operation {
	r = progress.OrNop(r)
	total := len(planned)
	batchID := e.opts.NewID()

	logger := zerolog.Ctx(ctx).With().Str("batch_id", batchID).Logger()
	logger.Debug().Int("total", total).Msg("executing batch")

	results := make([]Operation, 0, total)
	for i, p := range planned {
		r.Report(progress.Step(progress.KindProcessing, p.FileName, i, total))

		op := e.apply(ctx, batchID, p)

		if err := e.opts.Log.Append(ctx, op); err != nil {
			logger.Warn().Err(err).Str("operation_id", op.ID).Msg("failed to save operation to history")
		}

		ev := logger.Debug().
			Str("operation_id", op.ID).
			Str("kind", op.Kind.String()).
			Str("source", op.SourcePath).
			Str("status", op.Status.String())
		if op.DestinationPath != "" {
			ev = ev.Str("destination", op.DestinationPath)
		}
		ev.Msg("operation applied")

		results = append(results, op)
	}

	r.Report(progress.Done(total))
	return results
}

// apply runs a single planned operation and builds its record.
func (e *Executor) apply(ctx context.Context, batchID string, p PlannedOperation) Operation {
	op := Operation{
		ID:           e.opts.NewID(),
		Kind:         p.Kind,
		SourcePath:   p.Source,
		OriginalName: p.FileName,
		BatchID:      batchID,
	}
	if op.OriginalName == "" {
		op.OriginalName = filepath.Base(p.Source)
	}
	if p.Kind.NeedsDestination() {
		op.DestinationPath = p.Destination
		if p.Destination != "" {
			op.NewName = filepath.Base(p.Destination)
		}
	}

	err := p.Validate()
	if err == nil {
		err = e.mutate(ctx, &op)
	}

	op.Timestamp = e.opts.Now().Unix()
	if err != nil {
		op.Status = Failed(err.Error())
	} else {
		op.Status = Completed()
	}
	return op
}

func (e *Executor) mutate(ctx context.Context, op *Operation) error {
	switch op.Kind {
	case KindMove, KindRename:
		return e.opts.Files.Rename(ctx, op.SourcePath, op.DestinationPath)
	case KindCopy:
		return e.opts.Files.Copy(ctx, op.SourcePath, op.DestinationPath)
	case KindDelete:
		backup := e.backupPath(op)
		if err := e.opts.Files.Relocate(ctx, op.SourcePath, backup); err != nil {
			return errors.Errorf("backing up before delete: %w", err)
		}
		op.BackupPath = backup
		return nil
	default:
		return errors.Errorf("unsupported operation type %q", op.Kind)
	}
}

// backupPath is <backup_dir>/<batch_id>/<operation_id>-<name>.
func (e *Executor) backupPath(op *Operation) string {
	return filepath.Join(e.opts.BackupDir, op.BatchID, op.ID+"-"+filepath.Base(op.SourcePath))
}
