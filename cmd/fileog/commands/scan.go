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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileog/cmd/fileog/opts"
	"github.com/walteh/fileog/pkg/log"
	"github.com/walteh/fileog/pkg/progress"
	"github.com/walteh/fileog/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

func NewScanCmd(o *opts.RootOpts) *cobra.Command {
	var (
		asJSON bool
		hidden bool
		flat   bool
		mime   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "List the files of a directory with their detected type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "scan").Logger().WithContext(cmd.Context())

			root, err := absolute(args[0])
			if err != nil {
				return err
			}

			options := o.Config.ScanOptions(root)
			if cmd.Flags().Changed("hidden") {
				options.IncludeHidden = hidden
			}
			if cmd.Flags().Changed("flat") {
				options.Recursive = !flat
			}
			if cmd.Flags().Changed("mime") {
				options.DetectMIME = mime
			}

			s, err := scan.New(options)
			if err != nil {
				return err
			}

			var items []scan.FileItem
			err = withProgress(o, "scanning "+args[0], func(r progress.Reporter) error {
				var scanErr error
				items, scanErr = s.Scan(ctx, r)
				return scanErr
			})
			if err != nil {
				return errors.Errorf("scanning %s: %w", root, err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}

			var total int64
			for _, item := range items {
				total += item.Size
				line := fmt.Sprintf("%-10s %10s  %s", item.FileType, log.FormatBytes(item.Size), item.Path)
				if item.MimeType != "" {
					line += "  " + item.MimeType
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			log.FromContext(ctx).Infof("%d files, %s", len(items), log.FormatBytes(total))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print files as json")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files")
	cmd.Flags().BoolVar(&flat, "flat", false, "do not descend into subdirectories")
	cmd.Flags().BoolVar(&mime, "mime", false, "detect mime types from content")

	return cmd
}
