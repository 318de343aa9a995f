package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/devbush/whisper2srt/internal/adapters/cli/tui"
	"github.com/devbush/whisper2srt/internal/adapters/whisper"
)

// NewModelCmd creates the model subcommand
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage Whisper models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available models",
		RunE:  runModelList,
	}

	downloadCmd := &cobra.Command{
		Use:   "download <model>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDownload,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelRemove,
	}

	urlCmd := &cobra.Command{
		Use:   "url <model>",
		Short: "Print the download URL of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelURL,
	}

	cmd.AddCommand(listCmd, downloadCmd, removeCmd, urlCmd)
	return cmd
}

func runModelList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	return printModelTable(cmd.OutOrStdout(), app)
}

func modelRows(app *App) [][]string {
	models := app.Transcriber.AvailableModels()
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		status := "not downloaded"
		if m.Downloaded {
			status = "downloaded"
		}
		if m.Name == app.Config.Defaults.Model {
			status += " (default)"
		}
		rows = append(rows, []string{m.Name, tui.FormatSize(m.Size), status, m.Description})
	}
	return rows
}

func printModelTable(out io.Writer, app *App) error {
	writeTable(out, modelColumns, modelRows(app))
	return nil
}

func runModelDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	model := args[0]

	if _, err := whisper.ModelURL(model); err != nil {
		return err
	}

	if app.Transcriber.IsModelDownloaded(model) {
		fmt.Fprintf(out, "Model '%s' is already downloaded\n", model)
		return nil
	}

	fmt.Fprintf(out, "Downloading model '%s'...\n", model)

	err = app.Transcriber.DownloadModel(cmd.Context(), model, func(downloaded, total int64) {
		if total > 0 && !quietFlag {
			pct := float64(downloaded) / float64(total) * 100
			fmt.Fprintf(out, "\rProgress: %.1f%% (%s / %s)", pct, tui.FormatSize(downloaded), tui.FormatSize(total))
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nModel downloaded successfully")
	return nil
}

func runModelRemove(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	model := args[0]

	if !app.Transcriber.IsModelDownloaded(model) {
		fmt.Fprintf(out, "Model '%s' is not downloaded\n", model)
		return nil
	}

	if err := app.Transcriber.DeleteModel(model); err != nil {
		return err
	}

	fmt.Fprintf(out, "Model '%s' removed\n", model)
	return nil
}

func runModelURL(cmd *cobra.Command, args []string) error {
	url, err := whisper.ModelURL(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
