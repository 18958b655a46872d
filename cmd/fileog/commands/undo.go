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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileog/cmd/fileog/opts"
	"github.com/walteh/fileog/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func NewUndoCmd(o *opts.RootOpts) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recent completed operations",
		Long: `Undo reverses up to --steps of the most recent completed operations,
newest first. Moves and renames are moved back, copies are removed and
deleted files are restored from their backup. Operations whose files have
since gone missing, or whose original location is occupied, are skipped and
stay available for a later undo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "undo").Logger().WithContext(cmd.Context())
			console := log.FromContext(ctx)

			undoer, err := o.Undoer()
			if err != nil {
				return errors.Errorf("creating undoer: %w", err)
			}

			undone, err := undoer.Undo(ctx, steps)
			if err != nil {
				return errors.Errorf("undoing operations: %w", err)
			}

			if len(undone) == 0 {
				console.Info("nothing to undo")
				return nil
			}
			console.Header("undoing " + log.Plural(len(undone), "operation"))
			for _, op := range undone {
				console.LogOperation(ctx, op)
			}
			console.LogNewline()
			console.Successf("undid %d of %d requested operations", len(undone), steps)
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of operations to undo")

	return cmd
}
