package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/devbush/whisper2srt/internal/adapters/cli/tui"
	"github.com/devbush/whisper2srt/internal/config"
)

var clearAllFlag bool

// NewCacheCmd creates the cache subcommand
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached transcripts",
		RunE:  runCacheStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear expired cache entries (all with --all)",
		RunE:  runCacheClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Clear all cache entries")

	forgetCmd := &cobra.Command{
		Use:   "forget <audio-file>",
		Short: "Drop cached transcripts of one file (uses --model and --language)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCacheForget,
	}

	cmd.AddCommand(clearCmd, forgetCmd)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	return printCacheStats(cmd.Context(), cmd.OutOrStdout(), app)
}

func printCacheStats(ctx context.Context, out io.Writer, app *App) error {
	stats, err := app.CacheSvc.Stats(ctx)
	if err != nil {
		return err
	}

	writeTable(out, cacheColumns, [][]string{
		{"Items", fmt.Sprintf("%d", stats.ItemCount)},
		{"Size", tui.FormatSize(stats.TotalSize)},
		{"TTL", app.Config.Defaults.CacheTTL},
		{"Location", config.CacheDir()},
	})
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	return clearCache(cmd.Context(), cmd.OutOrStdout(), app, clearAllFlag)
}

func clearCache(ctx context.Context, out io.Writer, app *App, all bool) error {
	if all {
		if err := app.CacheSvc.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "All cache entries cleared")
		return nil
	}

	cleaned, err := app.CacheSvc.CleanExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d expired entries\n", cleaned)
	return nil
}

func runCacheForget(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	cfg := app.Config.Defaults
	found, err := app.CacheSvc.Forget(cmd.Context(), args[0], cfg.Model, cfg.Language)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintf(out, "No cached transcripts for %s (model %s)\n", args[0], cfg.Model)
		return nil
	}
	fmt.Fprintf(out, "Removed cached transcripts for %s\n", args[0])
	return nil
}
