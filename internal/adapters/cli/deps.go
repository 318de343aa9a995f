package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show status of whisper.cpp, ffmpeg and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			return printDepsStatus(cmd.OutOrStdout(), app)
		},
	}
}

// binaryChecker is the part of an external tool adapter deps reports on
type binaryChecker interface {
	IsAvailable() bool
	GetBinaryPath() string
	Instructions() string
}

func depRow(name string, c binaryChecker) (row []string, hint string) {
	if c.IsAvailable() {
		return []string{name, "installed", c.GetBinaryPath()}, ""
	}
	return []string{name, "not found", ""}, c.Instructions()
}

func printDepsStatus(out io.Writer, app *App) error {
	var rows [][]string
	var hints []string

	for _, dep := range []struct {
		name string
		c    binaryChecker
	}{
		{"whisper.cpp", app.Transcriber},
		{"ffmpeg", app.Extractor},
	} {
		row, hint := depRow(dep.name, dep.c)
		rows = append(rows, row)
		if hint != "" {
			hints = append(hints, hint)
		}
	}

	models := app.Transcriber.AvailableModels()
	downloaded := 0
	for _, m := range models {
		if m.Downloaded {
			downloaded++
		}
	}
	rows = append(rows, []string{"models", fmt.Sprintf("%d/%d downloaded", downloaded, len(models)), ""})

	writeTable(out, depsColumns, rows)
	for _, hint := range hints {
		fmt.Fprintln(out, hint)
	}
	return nil
}
