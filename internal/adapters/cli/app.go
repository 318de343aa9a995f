package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/adapters/cache"
	"github.com/devbush/whisper2srt/internal/adapters/ffmpeg"
	"github.com/devbush/whisper2srt/internal/adapters/output"
	"github.com/devbush/whisper2srt/internal/adapters/whisper"
	"github.com/devbush/whisper2srt/internal/application"
	"github.com/devbush/whisper2srt/internal/config"
	"github.com/devbush/whisper2srt/internal/logging"
	"github.com/devbush/whisper2srt/internal/ports"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Log         zerolog.Logger
	Cache       ports.CacheStore
	Extractor   *ffmpeg.Extractor
	Transcriber *whisper.Transcriber

	TranscribeSvc *application.TranscribeService
	ExportSvc     *application.ExportService
	CacheSvc      *application.CacheService
}

// NewApp wires up all dependencies from a loaded config. Logs go to logOut.
func NewApp(cfg *config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.Log, logOut)
	fs := afero.NewOsFs()

	// Create adapters
	cacheStore := cache.NewFileCache(config.CacheDir(), cache.WithFs(fs))
	extractor := ffmpeg.NewExtractor(
		ffmpeg.WithBinaryPath(cfg.Paths.FFmpeg),
		ffmpeg.WithLogger(logging.Component(log, "ffmpeg")),
	)
	transcriber := whisper.NewTranscriber(config.ModelsDir(),
		whisper.WithBinaryPath(cfg.Paths.Whisper),
		whisper.WithLogger(logging.Component(log, "whisper")),
	)

	// Create services
	transcribeSvc := application.NewTranscribeService(cacheStore, extractor, transcriber, ttl,
		application.WithFs(fs),
		application.WithLogger(logging.Component(log, "transcribe")),
	)
	exportSvc := application.NewExportService(output.NewAtomicWriter(fs))
	cacheSvc := application.NewCacheService(cacheStore, fs, logging.Component(log, "cache"))

	return &App{
		Config:        cfg,
		Log:           log,
		Cache:         cacheStore,
		Extractor:     extractor,
		Transcriber:   transcriber,
		TranscribeSvc: transcribeSvc,
		ExportSvc:     exportSvc,
		CacheSvc:      cacheSvc,
	}, nil
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed. Command
// line flags are applied on top of the config file.
func GetApp() (*App, error) {
	if globalApp == nil {
		if err := config.EnsureDirs(); err != nil {
			return nil, err
		}

		cfg, err := config.LoadDefault()
		if err != nil {
			return nil, err
		}
		applyFlagOverrides(cfg)

		app, err := NewApp(cfg, os.Stderr)
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}
