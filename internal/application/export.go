package application

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
	"github.com/devbush/whisper2srt/internal/srt"
)

// ExportService writes transcripts to disk, one file per task
type ExportService struct {
	writer ports.FileWriter
}

// NewExportService creates a new export service
func NewExportService(writer ports.FileWriter) *ExportService {
	return &ExportService{writer: writer}
}

// OutputPath returns where the transcript of source for task is written:
// <dir>/<stem>.<suffix>.<ext>
func OutputPath(dir, source string, task domain.Task, format domain.Format) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%s", stem, task.Suffix(), format.Ext()))
}

// Export writes every transcript in result to dir and returns the paths
// written, in task order. It stops at the first failure.
func (s *ExportService) Export(result *TranscribeResult, dir string, format domain.Format) ([]string, error) {
	var paths []string
	for _, task := range result.Tasks() {
		transcript := result.Transcripts[task]
		path := OutputPath(dir, result.Source, task, format)

		err := s.writer.WriteFile(path, func(w io.Writer) error {
			return Render(w, transcript, format)
		})
		if err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Render writes a transcript in the given format
func Render(w io.Writer, t *domain.Transcript, format domain.Format) error {
	switch format {
	case domain.FormatSRT:
		_, err := srt.Write(w, t.All())
		return err
	case domain.FormatText:
		_, err := io.WriteString(w, t.ToText()+"\n")
		return err
	case domain.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
}
