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

package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileog/pkg/fileops"
	"github.com/walteh/fileog/pkg/operation"
)

func TestExecuteThenUndoWithSQLite(t *testing.T) {
	ctx, store := openStore(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "src", "a.txt")
	dst := filepath.Join(dir, "dst", "a.txt")
	gone := filepath.Join(dir, "src", "b.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(gone, []byte("b"), 0o644))

	opts := operation.Options{
		Log:       store,
		Files:     fileops.New(),
		BackupDir: filepath.Join(dir, "backups"),
	}
	exec, err := operation.NewExecutor(opts)
	require.NoError(t, err)
	undoer, err := operation.NewUndoer(opts)
	require.NoError(t, err)

	results := exec.Execute(ctx, []operation.PlannedOperation{
		{FileName: "a.txt", Kind: operation.KindMove, Source: src, Destination: dst},
		{FileName: "b.txt", Kind: operation.KindDelete, Source: gone},
		{FileName: "c.txt", Kind: operation.KindMove, Source: filepath.Join(dir, "c.txt"), Destination: dst},
	}, nil)
	require.Len(t, results, 3)
	assert.True(t, results[2].Status.IsFailed())

	batches, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Operations, 3)

	undone, err := undoer.Undo(ctx, 5)
	require.NoError(t, err)
	require.Len(t, undone, 2)
	assert.Equal(t, results[1].ID, undone[0].ID)
	assert.Equal(t, results[0].ID, undone[1].ID)

	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)
	assert.FileExists(t, gone)

	again, err := undoer.Undo(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, again)

	completed, err := store.ListRecentCompleted(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, completed)
}
