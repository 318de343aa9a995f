package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devbush/whisper2srt/internal/adapters/cli/tui"
	"github.com/devbush/whisper2srt/internal/application"
)

const maxBatchConcurrency = 8

var (
	batchFileFlag    string
	batchConcurrency int
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Batch process multiple audio files",
		Long: `Batch process multiple audio or video files concurrently.

Provide files as arguments and/or via a list file with --file.
Subtitles for each file are written to the output directory.

Example:
  whisper2srt batch talk1.mp3 talk2.mp3
  whisper2srt batch --file recordings.txt
  whisper2srt batch *.wav --concurrency 4 -o subs/`,
		RunE: runBatch,
	}

	// Batch-specific flags
	cmd.Flags().StringVarP(&batchFileFlag, "file", "f", "", "File listing audio paths (one per line)")
	cmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 2, fmt.Sprintf("Max files processed at once (max %d)", maxBatchConcurrency))

	return cmd
}

func clampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxBatchConcurrency {
		return maxBatchConcurrency
	}
	return n
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := CollectInputs(args, batchFileFlag)
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no audio files provided")
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	settings, err := resolveSettings(app.Config)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Resolve binaries and the model once, before any worker starts
	progress := tui.NewProgressDisplay(out, []string{stepDeps}, quietFlag, isTerminal(os.Stdout))
	progress.StartStep(0)
	if err := ensureReady(ctx, app, settings.Model, progress, 0); err != nil {
		progress.FailStep(0, "")
		return err
	}
	progress.CompleteStep(0)

	summary := processBatch(ctx, out, app, paths, settings, clampConcurrency(batchConcurrency))
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

// fileProcessor turns one audio file into subtitle files
type fileProcessor func(ctx context.Context, path string) (outputs []string, cached bool, err error)

func appProcessor(app *App, settings *runSettings) fileProcessor {
	return func(ctx context.Context, path string) ([]string, bool, error) {
		result, err := app.TranscribeSvc.Transcribe(ctx, path, application.TranscribeOptions{
			Model:    settings.Model,
			Language: settings.Language,
			Tasks:    settings.Tasks,
			NoCache:  settings.NoCache,
		})
		if err != nil {
			return nil, false, err
		}
		outputs, err := app.ExportSvc.Export(result, settings.OutputDir, settings.Format)
		return outputs, result.FromCache, err
	}
}

func processBatch(ctx context.Context, out io.Writer, app *App, paths []string, settings *runSettings, concurrency int) *BatchSummary {
	return runBatchWith(ctx, out, paths, concurrency, appProcessor(app, settings))
}

// runBatchWith runs process over paths with bounded concurrency. One
// file failing never stops the others.
func runBatchWith(ctx context.Context, out io.Writer, paths []string, concurrency int, process fileProcessor) *BatchSummary {
	progress := tui.NewBatchProgress(out, len(paths), quietFlag)

	// Each worker owns one slot
	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			outputs, cached, err := process(gctx, path)

			result := BatchResult{
				Source:   path,
				Success:  err == nil,
				Duration: time.Since(start),
				Cached:   cached,
				Outputs:  outputs,
			}
			if err != nil {
				result.Error = err.Error()
			}

			results[i] = result

			progress.AddResult(path, result.Success, result.Error, result.Duration, result.Cached)
			return nil
		})
	}

	_ = g.Wait()
	progress.Complete()

	return Summarize(results)
}
