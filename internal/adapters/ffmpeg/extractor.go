package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devbush/whisper2srt/internal/config"
	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

// whisper.cpp only reads 16 kHz mono 16-bit PCM.
const sampleRate = "16000"

// Extractor implements ports.AudioExtractor using ffmpeg
type Extractor struct {
	binPath string
	log     zerolog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithBinaryPath pins the ffmpeg binary instead of searching for it
func WithBinaryPath(path string) Option {
	return func(e *Extractor) { e.binPath = path }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// NewExtractor creates a new ffmpeg extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (e *Extractor) findBinary() string {
	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (e *Extractor) GetBinaryPath() string {
	if e.binPath != "" {
		return e.binPath
	}
	e.binPath = e.findBinary()
	return e.binPath
}

func (e *Extractor) IsAvailable() bool {
	return e.GetBinaryPath() != ""
}

// Instructions returns platform-specific installation instructions
func (e *Extractor) Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "ffmpeg not found. Install it with: brew install ffmpeg"
	case "windows":
		return fmt.Sprintf("ffmpeg not found. Install it with: winget install ffmpeg, or place ffmpeg.exe in %s", config.BinDir())
	default:
		return "ffmpeg not found. Install it with your package manager, e.g.: sudo apt install ffmpeg"
	}
}

func buildArgs(src, dest string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-vn",
		"-ar", sampleRate,
		"-ac", "1",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (e *Extractor) ExtractAudio(ctx context.Context, src, dest string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrAudioNotFound, src)
		}
		return err
	}

	binPath := e.GetBinaryPath()
	if binPath == "" {
		return domain.ErrFFmpegNotFound
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	args := buildArgs(src, dest)
	e.log.Debug().Str("bin", binPath).Strs("args", args).Msg("running ffmpeg")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Ensure Extractor implements interface
var _ ports.AudioExtractor = (*Extractor)(nil)
