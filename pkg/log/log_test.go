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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileog/pkg/duplicate"
	"github.com/walteh/fileog/pkg/operation"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogOperation(context.Background(), operation.Operation{
					ID:              "1",
					Kind:            operation.KindMove,
					SourcePath:      "/src/a.txt",
					DestinationPath: "/dst/a.txt",
					OriginalName:    "a.txt",
					Status:          operation.Completed(),
				})
			},
			wantLogs: []string{
				"→ a.txt                               move       completed   /dst/a.txt",
			},
		},
		{
			name: "batch_summary",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartBatch(ctx, "apply plan.yaml", 2)
				logger.LogOperation(ctx, operation.Operation{Kind: operation.KindCopy, OriginalName: "a", DestinationPath: "/b", Status: operation.Completed()})
				logger.LogOperation(ctx, operation.Operation{Kind: operation.KindCopy, OriginalName: "c", DestinationPath: "/d", Status: operation.Failed("boom")})
				completed, failed := logger.EndBatch(ctx)
				assert.Equal(t, 1, completed)
				assert.Equal(t, 1, failed)
			},
			wantLogs: []string{
				"◆ apply plan.yaml • 2 files",
				"+ a                                   copy       completed   /b",
				"✗ c                                   copy       failed      boom",
				"1 succeeded, 1 failed",
			},
		},
		{
			name: "duplicate_group",
			op: func(t *testing.T, logger *Logger) {
				logger.LogDuplicateGroup(context.Background(), duplicate.Group{
					Hash:  "0123456789abcdef0123",
					Files: []string{"/a/x.jpg", "/b/x.jpg"},
					Size:  2048,
				})
			},
			wantLogs: []string{
				"◆ 0123456789ab • 2.0 KB × 2",
				"• /a/x.jpg",
				"• /b/x.jpg",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("undoing 3 operations")
			},
			wantLogs: []string{
				"fileog • undoing 3 operations",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   operation.Operation
		want string
	}{
		{
			name: "completed_move",
			op:   operation.Operation{Kind: operation.KindMove, OriginalName: "a.txt", DestinationPath: "/dst/a.txt", Status: operation.Completed()},
			want: "    → a.txt                               move       completed   /dst/a.txt",
		},
		{
			name: "failed_copy",
			op:   operation.Operation{Kind: operation.KindCopy, OriginalName: "b.txt", DestinationPath: "/dst/b.txt", Status: operation.Failed("boom")},
			want: "    ✗ b.txt                               copy       failed      boom",
		},
		{
			name: "delete_with_backup",
			op:   operation.Operation{Kind: operation.KindDelete, OriginalName: "c.txt", BackupPath: "/b/c.txt", Status: operation.Completed()},
			want: "    - c.txt                               delete     completed   backup /b/c.txt",
		},
		{
			name: "undone_rename",
			op:   operation.Operation{Kind: operation.KindRename, OriginalName: "d.txt", DestinationPath: "/x/e.txt", Status: operation.Undone()},
			want: "    ↺ d.txt                               rename     undone      /x/e.txt",
		},
		{
			name: "falls_back_to_source",
			op:   operation.Operation{Kind: operation.KindCopy, SourcePath: "/src/f.txt", Status: operation.Completed()},
			want: "    + /src/f.txt                          copy       completed   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Nop())
			assert.Equal(t, tt.want, logger.formatOperation(tt.op), "formatted output should match")
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "3.0 MB", FormatBytes(3*1024*1024))
}
