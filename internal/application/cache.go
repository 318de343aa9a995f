package application

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

// CacheStats holds cache statistics
type CacheStats struct {
	ItemCount int
	TotalSize int64
}

// CacheService handles cache management operations
type CacheService struct {
	cache ports.CacheStore
	fs    afero.Fs
	log   zerolog.Logger
}

// NewCacheService creates a new cache service. Audio passed to Forget is
// read from fs.
func NewCacheService(cache ports.CacheStore, fs afero.Fs, log zerolog.Logger) *CacheService {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &CacheService{cache: cache, fs: fs, log: log}
}

// Stats returns cache statistics
func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	count, size, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		ItemCount: count,
		TotalSize: size,
	}, nil
}

// CleanExpired removes expired cache entries
func (s *CacheService) CleanExpired(ctx context.Context) (int, error) {
	n, err := s.cache.CleanExpired(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("removed", n).Msg("cleaned expired cache entries")
	return n, nil
}

// Clear removes all cache entries
func (s *CacheService) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("cache cleared")
	return nil
}

// Forget drops the cached transcripts of one audio file for the given
// model and language hint. It reports whether an entry existed; expired
// entries count.
func (s *CacheService) Forget(ctx context.Context, audioPath, model, language string) (bool, error) {
	if model == "" {
		model = defaultModel
	}
	language, err := domain.ParseLanguage(language)
	if err != nil {
		return false, err
	}

	key, err := Fingerprint(s.fs, audioPath, model, language)
	if err != nil {
		return false, err
	}

	_, err = s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		return false, nil
	case err != nil && !errors.Is(err, domain.ErrCacheExpired):
		s.log.Warn().Err(err).Str("key", key).Msg("unreadable cache entry, removing")
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return false, err
	}
	s.log.Debug().Str("source", audioPath).Str("key", key).Msg("cache entry removed")
	return true, nil
}
