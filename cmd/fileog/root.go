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

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileog/cmd/fileog/commands"
	"github.com/walteh/fileog/cmd/fileog/opts"
	"github.com/walteh/fileog/pkg/config"
)

func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultPath(), "config file path (yaml, json or hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.Quiet, "quiet", "q", false, "disable progress output")
}

func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newRootCmd builds the command tree. Logging, config and the history store
// are set up in PersistentPreRunE once flags are known.
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "fileog",
		Short: "Move, copy, rename and delete files with a durable, undoable log",
		Long: `fileog applies file operations in batches, records every attempt in a
local SQLite history, and can undo the most recent completed operations.
It can also scan directories and report duplicate files by content hash.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(o.Debug)
			ctx, err := o.Init(logger.WithContext(cmd.Context()), cmd.OutOrStdout())
			cmd.SetContext(ctx)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return o.Close()
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewMoveCmd(o),
		commands.NewCopyCmd(o),
		commands.NewRenameCmd(o),
		commands.NewDeleteCmd(o),
		commands.NewOrganizeCmd(o),
		commands.NewUndoCmd(o),
		commands.NewHistoryCmd(o),
		commands.NewDupesCmd(o),
		commands.NewScanCmd(o),
	)

	return cmd
}
