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
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/duplicate"
	"github.com/walteh/fileog/pkg/operation"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	kindWidth   = 10 // Width for operation kind
	statusWidth = 12 // Width for status text
	hashWidth   = 12 // digest prefix shown for duplicate groups
)

// 🎯 Logger prints operations to a console and mirrors them into zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   string
	results []operation.Operation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func symbolFor(op operation.Operation) (rune, color.Attribute) {
	switch {
	case op.Status.IsFailed():
		return '✗', color.FgRed
	case op.Status.IsUndone():
		return '↺', color.FgMagenta
	}
	switch op.Kind {
	case operation.KindMove:
		return '→', color.FgBlue
	case operation.KindCopy:
		return '+', color.FgGreen
	case operation.KindRename:
		return '⟳', color.FgCyan
	case operation.KindDelete:
		return '-', color.FgYellow
	default:
		return '•', color.FgWhite
	}
}

func statusText(s operation.Status) string {
	if s.IsFailed() {
		return "failed"
	}
	return s.String()
}

// 📝 formatOperation formats an operation for display
func (l *Logger) formatOperation(op operation.Operation) string {
	symbol, symbolColor := symbolFor(op)

	name := op.OriginalName
	if name == "" {
		name = op.SourcePath
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, statusText(op.Status)))

	switch {
	case op.Status.IsFailed():
		line += color.New(color.FgRed).Sprint(op.Status.Reason)
	case op.DestinationPath != "":
		line += color.New(color.Faint).Sprint(op.DestinationPath)
	case op.BackupPath != "":
		line += color.New(color.Faint).Sprint("backup " + op.BackupPath)
	}
	return line
}

// 📝 LogOperation logs one operation record
func (l *Logger) LogOperation(ctx context.Context, op operation.Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, op)

	fmt.Fprintln(l.console, l.formatOperation(op))

	ev := l.zlog.Info()
	if op.Status.IsFailed() {
		ev = l.zlog.Warn()
	}
	ev.Str("operation_id", op.ID).
		Str("batch_id", op.BatchID).
		Str("kind", op.Kind.String()).
		Str("source", op.SourcePath).
		Str("destination", op.DestinationPath).
		Str("status", op.Status.String()).
		Msg("file operation")
}

// 📝 StartBatch prints a header for a group of operations
func (l *Logger) StartBatch(ctx context.Context, title string, size int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = title
	l.results = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(title),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(Plural(size, "file")))

	l.zlog.Info().Str("batch", title).Int("size", size).Msg("starting batch")
}

// 📝 EndBatch prints the outcome counts of the current batch
func (l *Logger) EndBatch(ctx context.Context) (completed, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, op := range l.results {
		if op.Status.IsFailed() {
			failed++
		} else {
			completed++
		}
	}

	summary := fmt.Sprintf("%d succeeded", completed)
	if failed > 0 {
		summary += ", " + color.New(color.FgRed).Sprintf("%d failed", failed)
	}
	fmt.Fprintf(l.console, "%*s%s\n", fileIndent, "", summary)

	l.zlog.Info().
		Str("batch", l.batch).
		Int("completed", completed).
		Int("failed", failed).
		Msg("batch complete")

	l.batch = ""
	l.results = nil
	return completed, failed
}

// 📝 LogBatch prints a stored batch with its operations
func (l *Logger) LogBatch(ctx context.Context, b operation.Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(time.Unix(b.CreatedAt, 0).Format(time.DateTime)),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(b.Description))

	for _, op := range b.Operations {
		fmt.Fprintln(l.console, l.formatOperation(op))
	}
}

// 📝 LogDuplicateGroup prints one set of identical files
func (l *Logger) LogDuplicateGroup(ctx context.Context, g duplicate.Group) {
	l.mu.Lock()
	defer l.mu.Unlock()

	hash := g.Hash
	if len(hash) > hashWidth {
		hash = hash[:hashWidth]
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(hash),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%s × %d", FormatBytes(g.Size), len(g.Files)))

	for _, f := range g.Files {
		fmt.Fprintf(l.console, "%*s%s %s\n", fileIndent, "", color.New(color.FgCyan).Sprint("•"), f)
	}

	l.zlog.Info().Str("hash", g.Hash).Int64("size", g.Size).Strs("files", g.Files).Msg("duplicate group")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("fileog")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 KB".
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Plural formats a count with a regular English plural, e.g. "3 files".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
