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
	"github.com/walteh/fileog/pkg/duplicate"
	"github.com/walteh/fileog/pkg/log"
	"github.com/walteh/fileog/pkg/progress"
	"github.com/walteh/fileog/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

type dupesReport struct {
	Algorithm string            `json:"algorithm"`
	Scanned   int               `json:"scanned"`
	Wasted    int64             `json:"wasted_bytes"`
	Groups    []duplicate.Group `json:"groups"`
}

func NewDupesCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dupes <dir>...",
		Short: "Find files with identical content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "dupes").Logger().WithContext(cmd.Context())

			var files []duplicate.FileDescriptor
			seen := make(map[string]struct{})
			for _, arg := range args {
				root, err := absolute(arg)
				if err != nil {
					return err
				}
				s, err := scan.New(o.Config.ScanOptions(root))
				if err != nil {
					return err
				}
				var items []scan.FileItem
				err = withProgress(o, "scanning "+arg, func(r progress.Reporter) error {
					var scanErr error
					items, scanErr = s.Scan(ctx, r)
					return scanErr
				})
				if err != nil {
					return errors.Errorf("scanning %s: %w", root, err)
				}
				// overlapping roots list the same file more than once
				for _, d := range scan.ToDescriptors(items) {
					if _, ok := seen[d.Path]; ok {
						continue
					}
					seen[d.Path] = struct{}{}
					files = append(files, d)
				}
			}

			hasher, err := o.Hasher()
			if err != nil {
				return err
			}
			finder, err := duplicate.NewFinder(hasher)
			if err != nil {
				return err
			}

			var groups []duplicate.Group
			err = withProgress(o, "hashing", func(r progress.Reporter) error {
				groups = finder.Find(ctx, files, r)
				return nil
			})
			if err != nil {
				return err
			}

			report := dupesReport{
				Algorithm: string(hasher.Algorithm()),
				Scanned:   len(files),
				Wasted:    duplicate.Wasted(groups),
				Groups:    groups,
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			console := log.FromContext(ctx)
			if len(groups) == 0 {
				console.Infof("no duplicates among %d files", len(files))
				return nil
			}
			console.Header("duplicates among " + log.Plural(len(files), "file"))
			for _, g := range groups {
				console.LogDuplicateGroup(ctx, g)
			}
			console.Warningf("%d duplicate groups, %s reclaimable", len(groups), log.FormatBytes(report.Wasted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as json")

	return cmd
}
