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
	"github.com/walteh/fileog/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <plan-file>",
		Short: "Execute a batch of planned operations from a yaml or json file",
		Long: `Apply reads a plan file of the form

  operations:
    - file_name: report.pdf
      operation_type: move
      source: inbox/report.pdf
      destination: documents/report.pdf

and executes every entry as one batch. Relative paths are resolved against
the plan file's directory. Each attempt is recorded in the history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			planned, err := plan.Load(args[0])
			if err != nil {
				return errors.Errorf("loading plan: %w", err)
			}

			if dryRun {
				return writeJSON(cmd.OutOrStdout(), planned)
			}
			return execute(ctx, o, "apply "+args[0], planned)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the validated plan without executing it")

	return cmd
}
