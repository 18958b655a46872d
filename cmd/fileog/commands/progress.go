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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/walteh/fileog/cmd/fileog/opts"
	"github.com/walteh/fileog/pkg/log"
	"github.com/walteh/fileog/pkg/operation"
	"github.com/walteh/fileog/pkg/progress"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// progressBuffer bounds the events queued for the renderer; extras are dropped.
const progressBuffer = 64

// withProgress runs work while a renderer draws its progress events.
func withProgress(o *opts.RootOpts, title string, work func(r progress.Reporter) error) error {
	ch := progress.NewChannel(progressBuffer)

	var g errgroup.Group
	g.Go(func() error {
		return render(ch.Events(), title, o.Quiet)
	})
	g.Go(func() error {
		defer ch.Close()
		return work(ch)
	})
	return g.Wait()
}

// render draws a progress bar for events with a known total and a spinner
// for open-ended ones. It always drains the channel.
func render(events <-chan progress.Event, title string, quiet bool) error {
	var (
		bar     *pterm.ProgressbarPrinter
		spinner *pterm.SpinnerPrinter
		err     error
	)

	stop := func() {
		if bar != nil {
			_, _ = bar.Stop()
			bar = nil
		}
	}

	for ev := range events {
		if quiet {
			continue
		}
		switch {
		case ev.Event == progress.KindStarted:
			spinner, err = pterm.DefaultSpinner.Start(title)
			if err != nil {
				return errors.Errorf("starting spinner: %w", err)
			}
		case ev.Event == progress.KindCompleted:
			if spinner != nil {
				spinner.Success(fmt.Sprintf("%s: %d files", title, ev.CompletedCount))
				spinner = nil
			}
			if bar != nil {
				bar.Add(bar.Total - bar.Current)
			}
			stop()
		case spinner != nil:
			spinner.UpdateText(fmt.Sprintf("%s: %d files", title, ev.CompletedCount))
		case ev.TotalCount > 0:
			if bar == nil {
				bar, err = pterm.DefaultProgressbar.WithTotal(ev.TotalCount).WithTitle(title).Start()
				if err != nil {
					return errors.Errorf("starting progress bar: %w", err)
				}
			}
			bar.UpdateTitle(fmt.Sprintf("%s %s", title, filepath.Base(ev.CurrentFile)))
			if delta := ev.CompletedCount - bar.Current; delta > 0 {
				bar.Add(delta)
			}
		}
	}

	stop()
	if spinner != nil {
		_ = spinner.Stop()
	}
	return nil
}

// execute runs a batch and prints each resulting operation.
func execute(ctx context.Context, o *opts.RootOpts, title string, planned []operation.PlannedOperation) error {
	exec, err := o.Executor()
	if err != nil {
		return errors.Errorf("creating executor: %w", err)
	}

	var results []operation.Operation
	err = withProgress(o, title, func(r progress.Reporter) error {
		results = exec.Execute(ctx, planned, r)
		return nil
	})
	if err != nil {
		return err
	}

	console := log.FromContext(ctx)
	console.StartBatch(ctx, title, len(planned))
	for _, op := range results {
		console.LogOperation(ctx, op)
	}
	_, failed := console.EndBatch(ctx)
	if failed > 0 {
		console.Errorf("%s: %s failed", title, log.Plural(failed, "operation"))
		return errors.Errorf("%d of %d operations failed", failed, len(results))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("encoding json: %w", err)
	}
	return nil
}
