package application

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

const defaultModel = "medium"

// Stage names a step of the transcription pipeline, reported to callers
// that render progress.
type Stage string

const (
	StageExtracting   Stage = "extracting"
	StageTranscribing Stage = "transcribing"
	StageTranslating  Stage = "translating"
)

func stageFor(task domain.Task) Stage {
	if task == domain.TaskTranslate {
		return StageTranslating
	}
	return StageTranscribing
}

// TranscribeOptions configures the transcription
type TranscribeOptions struct {
	Model    string
	Language string        // empty for auto-detect
	Tasks    []domain.Task // empty runs every task
	NoCache  bool
	OnStage  func(Stage)
}

// TranscribeResult contains the transcription result
type TranscribeResult struct {
	Source      string
	Key         string
	Transcripts map[domain.Task]*domain.Transcript
	FromCache   bool
}

// Tasks returns the tasks present in the result, in output order
func (r *TranscribeResult) Tasks() []domain.Task {
	var tasks []domain.Task
	for _, task := range domain.AllTasks {
		if _, ok := r.Transcripts[task]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// TranscribeService orchestrates the transcription process
type TranscribeService struct {
	fs          afero.Fs
	cache       ports.CacheStore
	extractor   ports.AudioExtractor
	transcriber ports.Transcriber
	cacheTTL    time.Duration
	workDir     string
	log         zerolog.Logger
	now         func() time.Time
}

// ServiceOption configures a TranscribeService
type ServiceOption func(*TranscribeService)

// WithFs sets the filesystem audio is fingerprinted from
func WithFs(fs afero.Fs) ServiceOption {
	return func(s *TranscribeService) { s.fs = fs }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *TranscribeService) { s.log = l }
}

// WithWorkDir sets where intermediate WAV files are written
func WithWorkDir(dir string) ServiceOption {
	return func(s *TranscribeService) { s.workDir = dir }
}

// WithClock overrides the time source for cache timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *TranscribeService) { s.now = now }
}

// NewTranscribeService creates a new transcription service
func NewTranscribeService(
	cache ports.CacheStore,
	extractor ports.AudioExtractor,
	transcriber ports.Transcriber,
	cacheTTL time.Duration,
	opts ...ServiceOption,
) *TranscribeService {
	s := &TranscribeService{
		fs:          afero.NewOsFs(),
		cache:       cache,
		extractor:   extractor,
		transcriber: transcriber,
		cacheTTL:    cacheTTL,
		workDir:     os.TempDir(),
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcribe runs every requested task on an audio file. Tasks already in
// the cache are reused; only the missing ones reach the model.
func (s *TranscribeService) Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (*TranscribeResult, error) {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	language, err := domain.ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	tasks := opts.Tasks
	if len(tasks) == 0 {
		tasks = domain.AllTasks
	}

	key, err := Fingerprint(s.fs, audioPath, model, language)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("source", audioPath).Str("key", key).Logger()

	item := &ports.CachedItem{
		Source:      audioPath,
		Model:       model,
		Language:    language,
		Transcripts: make(map[domain.Task]*domain.Transcript),
	}
	if !opts.NoCache {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			maps.Copy(item.Transcripts, cached.Transcripts)
			item.CreatedAt = cached.CreatedAt
		} else {
			log.Debug().Err(err).Msg("cache lookup missed")
		}
	}

	var missing []domain.Task
	for _, task := range tasks {
		if _, ok := item.Transcripts[task]; !ok {
			missing = append(missing, task)
		}
	}

	if len(missing) == 0 {
		log.Info().Msg("serving transcripts from cache")
		return &TranscribeResult{
			Source:      audioPath,
			Key:         key,
			Transcripts: pick(item.Transcripts, tasks),
			FromCache:   true,
		}, nil
	}

	if err := s.run(ctx, audioPath, item, missing, opts.OnStage, log); err != nil {
		return nil, err
	}

	// A bypassed lookup must not drop tasks cached by an earlier run
	if opts.NoCache {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			for task, t := range cached.Transcripts {
				if _, ok := item.Transcripts[task]; !ok {
					item.Transcripts[task] = t
				}
			}
			item.CreatedAt = cached.CreatedAt
		}
	}

	now := s.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.ExpiresAt = now.Add(s.cacheTTL)

	// Cache result (failures are non-fatal)
	if err := s.cache.Set(ctx, key, item); err != nil {
		log.Warn().Err(err).Msg("failed to cache transcripts")
	}

	return &TranscribeResult{
		Source:      audioPath,
		Key:         key,
		Transcripts: pick(item.Transcripts, tasks),
		FromCache:   false,
	}, nil
}

func (s *TranscribeService) run(ctx context.Context, audioPath string, item *ports.CachedItem, tasks []domain.Task, onStage func(Stage), log zerolog.Logger) error {
	report := func(stage Stage) {
		if onStage != nil {
			onStage(stage)
		}
	}

	wavPath := filepath.Join(s.workDir, "whisper2srt_"+uuid.NewString()+".wav")
	defer os.Remove(wavPath)

	report(StageExtracting)
	start := s.now()
	if err := s.extractor.ExtractAudio(ctx, audioPath, wavPath); err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}
	log.Debug().Dur("took", s.now().Sub(start)).Msg("audio extracted")

	for _, task := range tasks {
		report(stageFor(task))
		start := s.now()

		transcript, err := s.transcriber.Transcribe(ctx, wavPath, ports.TranscribeOpts{
			Model:    item.Model,
			Language: item.Language,
			Task:     task,
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("task", string(task)).
			Int("segments", len(transcript.Segments)).
			Str("language", transcript.Language).
			Dur("took", s.now().Sub(start)).
			Msg("task complete")
		item.Transcripts[task] = transcript
	}
	return nil
}

func pick(all map[domain.Task]*domain.Transcript, tasks []domain.Task) map[domain.Task]*domain.Transcript {
	out := make(map[domain.Task]*domain.Transcript, len(tasks))
	for _, task := range tasks {
		if t, ok := all[task]; ok {
			out[task] = t
		}
	}
	return out
}
