package domain

import "errors"

var (
	// Input errors
	ErrInvalidSegment  = errors.New("invalid segment")
	ErrInvalidLanguage = errors.New("invalid language")
	ErrUnknownTask     = errors.New("unknown task")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrAudioNotFound   = errors.New("audio file not found")

	// Transcription errors
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrModelNotFound       = errors.New("model not found")
	ErrUnknownModel        = errors.New("unknown model")

	// Cache errors
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheMiss    = errors.New("cache miss")

	// Dependency errors
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrWhisperNotFound = errors.New("whisper.cpp not found")
)
