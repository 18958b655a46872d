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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileog/cmd/fileog/opts"
	"github.com/walteh/fileog/pkg/log"
	"github.com/walteh/fileog/pkg/operation"
	"github.com/walteh/fileog/pkg/plan"
	"github.com/walteh/fileog/pkg/progress"
	"github.com/walteh/fileog/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// targetPath resolves dst as a directory when it already is one.
func targetPath(src, dst string) string {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return filepath.Join(dst, filepath.Base(src))
	}
	return dst
}

func absolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// transfer plans kind for every source into dir.
func transfer(kind operation.Kind, sources []string, dir string) ([]operation.PlannedOperation, error) {
	dir, err := absolute(dir)
	if err != nil {
		return nil, err
	}
	planned := make([]operation.PlannedOperation, 0, len(sources))
	for _, src := range sources {
		abs, err := absolute(src)
		if err != nil {
			return nil, err
		}
		dst := filepath.Join(dir, filepath.Base(abs))
		if len(sources) == 1 {
			dst = targetPath(abs, dir)
		}
		planned = append(planned, operation.PlannedOperation{
			FileName:    filepath.Base(abs),
			Kind:        kind,
			Source:      abs,
			Destination: dst,
		})
	}
	return planned, nil
}

func NewMoveCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "move <source>... <destination>",
		Short: "Move files, recording each move so it can be undone",
		Long: `Move relocates files. With a single source the destination may be a
file path or an existing directory; with several sources it is a directory.
Existing files are never overwritten.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "move").Logger().WithContext(cmd.Context())
			planned, err := transfer(operation.KindMove, args[:len(args)-1], args[len(args)-1])
			if err != nil {
				return err
			}
			return execute(ctx, o, "move", planned)
		},
	}
}

func NewCopyCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <source>... <destination>",
		Short: "Copy files, recording each copy so it can be undone",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "copy").Logger().WithContext(cmd.Context())
			planned, err := transfer(operation.KindCopy, args[:len(args)-1], args[len(args)-1])
			if err != nil {
				return err
			}
			return execute(ctx, o, "copy", planned)
		},
	}
}

func NewRenameCmd(o *opts.RootOpts) *cobra.Command {
	var rule plan.RenameRule

	cmd := &cobra.Command{
		Use:   "rename (<path> <new-name> | --from <text> --to <text> [--glob <pattern>] <dir>)",
		Short: "Rename a file, or bulk rename files in a directory by substring",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "rename").Logger().WithContext(cmd.Context())

			if rule.From == "" {
				if len(args) != 2 {
					return errors.New("rename needs <path> <new-name>, or --from with a directory")
				}
				src, err := absolute(args[0])
				if err != nil {
					return err
				}
				return execute(ctx, o, "rename", []operation.PlannedOperation{{
					FileName:    filepath.Base(src),
					Kind:        operation.KindRename,
					Source:      src,
					Destination: filepath.Join(filepath.Dir(src), args[1]),
				}})
			}

			if len(args) != 1 {
				return errors.New("bulk rename takes exactly one directory")
			}
			root, err := absolute(args[0])
			if err != nil {
				return err
			}
			s, err := scan.New(o.Config.ScanOptions(root))
			if err != nil {
				return err
			}
			items, err := s.Scan(ctx, nil)
			if err != nil {
				return errors.Errorf("scanning %s: %w", root, err)
			}
			planned, err := plan.BuildRenames(items, []plan.RenameRule{rule})
			if err != nil {
				return errors.Errorf("planning renames: %w", err)
			}
			if len(planned) == 0 {
				log.FromContext(ctx).Info("no file names matched")
				return nil
			}
			return execute(ctx, o, "rename", planned)
		},
	}

	cmd.Flags().StringVar(&rule.From, "from", "", "text to replace in file names")
	cmd.Flags().StringVar(&rule.To, "to", "", "replacement text")
	cmd.Flags().StringVar(&rule.Glob, "glob", "", "only rename names matching this pattern")

	return cmd
}

func NewDeleteCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>...",
		Short: "Delete files, keeping a backup so the delete can be undone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "delete").Logger().WithContext(cmd.Context())
			planned := make([]operation.PlannedOperation, 0, len(args))
			for _, arg := range args {
				abs, err := absolute(arg)
				if err != nil {
					return err
				}
				planned = append(planned, operation.PlannedOperation{
					FileName: filepath.Base(abs),
					Kind:     operation.KindDelete,
					Source:   abs,
				})
			}
			return execute(ctx, o, "delete", planned)
		},
	}
}

func NewOrganizeCmd(o *opts.RootOpts) *cobra.Command {
	var (
		target     string
		categories map[string]string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "organize <dir>",
		Short: "Move the files of a directory into <target>/<category>/ folders",
		Long: `Organize scans a directory and moves each file into a category folder
under the target. Categories default to the file type derived from the
extension (document, image, video, audio, archive, code, other) and can be
overridden per file name with --category name=folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "organize").Logger().WithContext(cmd.Context())

			root, err := absolute(args[0])
			if err != nil {
				return err
			}
			if target == "" {
				target = root
			}
			target, err = absolute(target)
			if err != nil {
				return err
			}

			s, err := scan.New(o.Config.ScanOptions(root))
			if err != nil {
				return err
			}
			var items []scan.FileItem
			err = withProgress(o, "scanning", func(r progress.Reporter) error {
				var scanErr error
				items, scanErr = s.Scan(ctx, r)
				return scanErr
			})
			if err != nil {
				return errors.Errorf("scanning %s: %w", root, err)
			}

			byID := make(map[string]string, len(categories))
			for _, item := range items {
				if c, ok := categories[item.Name]; ok {
					byID[item.ID] = c
				}
			}

			planned, err := plan.BuildMoves(items, target, byID)
			if err != nil {
				return errors.Errorf("planning moves: %w", err)
			}
			if dryRun {
				return writeJSON(cmd.OutOrStdout(), planned)
			}
			if len(planned) == 0 {
				log.FromContext(ctx).Info("nothing to organize")
				return nil
			}
			return execute(ctx, o, "organize "+root, planned)
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "target root (defaults to the scanned directory)")
	cmd.Flags().StringToStringVar(&categories, "category", nil, "override the category of a file name, e.g. --category report.pdf=finance")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned moves without executing them")

	return cmd
}
