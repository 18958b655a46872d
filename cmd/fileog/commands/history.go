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
	"github.com/walteh/fileog/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func NewHistoryCmd(o *opts.RootOpts) *cobra.Command {
	var (
		limit     int
		completed bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent operations grouped by batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "history").Logger().WithContext(cmd.Context())

			if limit <= 0 {
				limit = o.Config.HistoryLimit
			}

			var (
				batches []operation.Batch
				err     error
			)
			if completed {
				batches, err = o.Store.ListRecentCompleted(ctx, limit)
			} else {
				batches, err = o.Store.ListRecent(ctx, limit)
			}
			if err != nil {
				return errors.Errorf("listing history: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), batches)
			}
			console := log.FromContext(ctx)
			if len(batches) == 0 {
				console.Info("no operations recorded")
				return nil
			}
			recorded := 0
			for _, b := range batches {
				recorded += len(b.Operations)
			}
			console.Header(log.Plural(recorded, "recorded operation"))
			for i, b := range batches {
				if i > 0 {
					console.LogNewline()
				}
				console.LogBatch(ctx, b)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of operations (defaults to history_limit)")
	cmd.Flags().BoolVar(&completed, "completed", false, "only show completed operations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print batches as json")

	cmd.AddCommand(newHistoryClearCmd(o))

	return cmd
}

func newHistoryClearCmd(o *opts.RootOpts) *cobra.Command {
	var purgeBackups bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded operation",
		Long: `Clear removes the whole operation history. Cleared operations can no
longer be undone. With --purge-backups the files kept for undoing deletes
are removed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "history clear").Logger().WithContext(cmd.Context())

			if err := o.Store.Clear(ctx); err != nil {
				return errors.Errorf("clearing history: %w", err)
			}
			if purgeBackups {
				if err := o.PurgeBackups(ctx); err != nil {
					return err
				}
			}
			log.FromContext(ctx).Success("history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&purgeBackups, "purge-backups", false, "also delete backups of deleted files")

	return cmd
}
