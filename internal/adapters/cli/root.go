package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbush/whisper2srt/internal/adapters/cli/tui"
	"github.com/devbush/whisper2srt/internal/application"
	"github.com/devbush/whisper2srt/internal/config"
	"github.com/devbush/whisper2srt/internal/domain"
)

var (
	// Global flags
	modelFlag     string
	languageFlag  string
	taskFlags     []string
	formatFlag    string
	outputDirFlag string
	cacheTTLFlag  string
	noCacheFlag   bool
	quietFlag     bool
	verboseFlag   bool
)

// Step names shown while a file is processed
const (
	stepDeps    = "Checking dependencies"
	stepExtract = "Extracting audio"
	stepWrite   = "Writing subtitles"
)

func stepForTask(task domain.Task) string {
	if task == domain.TaskTranslate {
		return "Translating to English"
	}
	return "Transcribing"
}

func stepForStage(stage application.Stage) string {
	switch stage {
	case application.StageExtracting:
		return stepExtract
	case application.StageTranslating:
		return stepForTask(domain.TaskTranslate)
	default:
		return stepForTask(domain.TaskTranscribe)
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "whisper2srt [audio-file]",
		Short: "Turn speech into SRT subtitles",
		Long: `whisper2srt transcribes an audio or video file with whisper.cpp and
writes SubRip subtitles next to it: <name>.transcription.srt in the
spoken language and <name>.translation.srt in English.

Provide a file to process it, or run without arguments for an
interactive menu.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&modelFlag, "model", "", "Whisper model: tiny, base, small, medium, large (default from config)")
	flags.StringVarP(&languageFlag, "language", "l", "", "Spoken language code (auto, en, no, fr, ...)")
	flags.StringSliceVar(&taskFlags, "task", nil, "Task to run: transcribe, translate (repeatable, default both)")
	flags.StringVar(&formatFlag, "format", "", "Output format: srt, text, json")
	flags.StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory for subtitle files")
	flags.StringVar(&cacheTTLFlag, "cache-ttl", "", "Cache lifetime (e.g., 24h, 7d)")
	flags.BoolVar(&noCacheFlag, "no-cache", false, "Skip cache")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// applyFlagOverrides copies explicitly set flags over config values
func applyFlagOverrides(cfg *config.Config) {
	if modelFlag != "" {
		cfg.Defaults.Model = modelFlag
	}
	if languageFlag != "" {
		cfg.Defaults.Language = languageFlag
	}
	if len(taskFlags) > 0 {
		cfg.Defaults.Tasks = taskFlags
	}
	if formatFlag != "" {
		cfg.Defaults.Format = formatFlag
	}
	if outputDirFlag != "" {
		cfg.Defaults.OutputDir = outputDirFlag
	}
	if cacheTTLFlag != "" {
		cfg.Defaults.CacheTTL = cacheTTLFlag
	}
	if verboseFlag {
		cfg.Log.Level = "debug"
	}
}

// runSettings are the parsed per-file options
type runSettings struct {
	Model     string
	Language  string
	Tasks     []domain.Task
	Format    domain.Format
	OutputDir string
	NoCache   bool
}

func resolveSettings(cfg *config.Config) (*runSettings, error) {
	language, err := domain.ParseLanguage(cfg.Defaults.Language)
	if err != nil {
		return nil, err
	}

	tasks, err := domain.ParseTasks(cfg.Defaults.Tasks)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		tasks = domain.AllTasks
	}

	format, err := domain.ParseFormat(cfg.Defaults.Format)
	if err != nil {
		return nil, err
	}

	outputDir := cfg.Defaults.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	return &runSettings{
		Model:     cfg.Defaults.Model,
		Language:  language,
		Tasks:     tasks,
		Format:    format,
		OutputDir: outputDir,
		NoCache:   noCacheFlag,
	}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if len(args) == 0 {
		if !isTerminal(os.Stdin) {
			return cmd.Help()
		}
		// No arguments - show interactive menu
		return runInteractiveMenu(cmd.Context(), cmd.OutOrStdout(), app)
	}

	settings, err := resolveSettings(app.Config)
	if err != nil {
		return err
	}
	_, err = runTranscribe(cmd.Context(), cmd.OutOrStdout(), app, args[0], settings)
	return err
}

func runInteractiveMenu(ctx context.Context, out io.Writer, app *App) error {
	options := []tui.MenuOption{
		{Label: "Transcribe an audio file", Value: "transcribe"},
		{Label: "Manage models", Value: "models"},
		{Label: "Manage cache", Value: "cache"},
		{Label: "Check dependencies", Value: "deps"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "transcribe":
		return runTranscribeInteractive(ctx, out, app)
	case "models":
		return printModelTable(out, app)
	case "cache":
		return runCacheInteractive(ctx, out, app)
	case "deps":
		return printDepsStatus(out, app)
	case "":
		fmt.Fprintln(out, "Cancelled")
	}

	return nil
}

func runTranscribeInteractive(ctx context.Context, out io.Writer, app *App) error {
	settings, err := resolveSettings(app.Config)
	if err != nil {
		return err
	}

	path, err := tui.RunPrompt("Audio or video file to transcribe", "recording.mp3", checkAudioFile)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	tasks, err := tui.RunTaskSelector(settings.Tasks)
	if err != nil {
		return err
	}
	if tasks == nil {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}
	settings.Tasks = tasks

	_, err = runTranscribe(ctx, out, app, path, settings)
	return err
}

func runCacheInteractive(ctx context.Context, out io.Writer, app *App) error {
	if err := printCacheStats(ctx, out, app); err != nil {
		return err
	}

	selected, err := tui.RunMenu("Cache action", []tui.MenuOption{
		{Label: "Remove expired entries", Value: "expired"},
		{Label: "Clear everything", Value: "all"},
		{Label: "Back", Value: ""},
	})
	if err != nil || selected == "" {
		return err
	}
	return clearCache(ctx, out, app, selected == "all")
}

// ensureReady checks the external binaries and fetches the model if needed
func ensureReady(ctx context.Context, app *App, model string, progress *tui.ProgressDisplay, step int) error {
	if !app.Extractor.IsAvailable() {
		return fmt.Errorf("%w\n%s", domain.ErrFFmpegNotFound, app.Extractor.Instructions())
	}
	if !app.Transcriber.IsAvailable() {
		return fmt.Errorf("%w\n%s", domain.ErrWhisperNotFound, app.Transcriber.Instructions())
	}

	if !app.Transcriber.IsModelDownloaded(model) {
		app.Log.Info().Str("model", model).Msg("model not downloaded, fetching")
		if err := app.Transcriber.DownloadModel(ctx, model, func(d, t int64) {
			progress.UpdateProgress(step, d, t)
		}); err != nil {
			return fmt.Errorf("failed to download model: %w", err)
		}
	}
	return nil
}

// runTranscribe processes one file end to end and returns the paths written
func runTranscribe(ctx context.Context, out io.Writer, app *App, path string, settings *runSettings) ([]string, error) {
	steps := []string{stepDeps, stepExtract}
	for _, task := range settings.Tasks {
		steps = append(steps, stepForTask(task))
	}
	steps = append(steps, stepWrite)

	progress := tui.NewProgressDisplay(out, steps, quietFlag, isTerminal(os.Stdout))

	// Step 1: Check dependencies
	progress.StartStep(0)
	if err := ensureReady(ctx, app, settings.Model, progress, 0); err != nil {
		progress.FailStep(0, "")
		return nil, err
	}
	progress.CompleteStep(0)

	// Start spinner for indeterminate steps
	spinnerDone := progress.StartSpinner()
	defer close(spinnerDone)

	result, err := app.TranscribeSvc.Transcribe(ctx, path, application.TranscribeOptions{
		Model:    settings.Model,
		Language: settings.Language,
		Tasks:    settings.Tasks,
		NoCache:  settings.NoCache,
		OnStage: func(stage application.Stage) {
			progress.CompleteRunning()
			progress.StartStep(progress.IndexOf(stepForStage(stage)))
		},
	})
	if err != nil {
		progress.FailRunning("")
		return nil, err
	}

	// Cached tasks never report a stage
	for i, step := range progress.Steps() {
		if step.Status != tui.StepError && step.Name != stepWrite {
			progress.CompleteStep(i)
		}
	}

	writeIdx := progress.IndexOf(stepWrite)
	progress.StartStep(writeIdx)
	paths, err := app.ExportSvc.Export(result, settings.OutputDir, settings.Format)
	if err != nil {
		progress.FailStep(writeIdx, "")
		return paths, err
	}
	progress.CompleteStep(writeIdx)

	outputs := make([]tui.OutputFile, 0, len(paths))
	for i, task := range result.Tasks() {
		label := task.Suffix()
		if result.FromCache {
			label += " (cached)"
		}
		outputs = append(outputs, tui.OutputFile{Label: label, Path: paths[i]})
	}
	progress.Complete(outputs)

	return paths, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
