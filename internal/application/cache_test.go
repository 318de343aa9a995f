package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

// failingCache fails every management call with err
type failingCache struct {
	mockCache
	err error
}

func (f *failingCache) CleanExpired(ctx context.Context) (int, error) { return 0, f.err }
func (f *failingCache) Clear(ctx context.Context) error              { return f.err }
func (f *failingCache) Stats(ctx context.Context) (int, int64, error) {
	return 0, 0, f.err
}

func TestCacheService_Stats(t *testing.T) {
	cache := newMockCache()
	cache.items["a"] = &ports.CachedItem{}
	cache.items["b"] = &ports.CachedItem{}
	svc := NewCacheService(cache, afero.NewMemMapFs(), zerolog.Nop())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", stats.ItemCount)
	}
}

func TestCacheService_Errors(t *testing.T) {
	wantErr := errors.New("disk gone")
	svc := NewCacheService(&failingCache{mockCache: *newMockCache(), err: wantErr}, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Stats(ctx); !errors.Is(err, wantErr) {
		t.Errorf("Stats() error = %v, want %v", err, wantErr)
	}
	if _, err := svc.CleanExpired(ctx); !errors.Is(err, wantErr) {
		t.Errorf("CleanExpired() error = %v, want %v", err, wantErr)
	}
	if err := svc.Clear(ctx); !errors.Is(err, wantErr) {
		t.Errorf("Clear() error = %v, want %v", err, wantErr)
	}
}

func TestCacheService_Forget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Transcribe(ctx, "/audio/talk.mp3", TranscribeOptions{Model: "small", Language: "en"}); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(f.cache.items) != 1 {
		t.Fatalf("cache has %d items, want 1", len(f.cache.items))
	}

	svc := NewCacheService(f.cache, f.fs, zerolog.Nop())

	// A different language hint is a different entry
	found, err := svc.Forget(ctx, "/audio/talk.mp3", "small", "fr")
	if err != nil || found {
		t.Errorf("Forget(fr) = %v, %v; want false, nil", found, err)
	}

	found, err = svc.Forget(ctx, "/audio/talk.mp3", "small", "EN")
	if err != nil || !found {
		t.Errorf("Forget(EN) = %v, %v; want true, nil", found, err)
	}
	if len(f.cache.items) != 0 {
		t.Errorf("cache still has %d items", len(f.cache.items))
	}

	if _, err := svc.Forget(ctx, "/audio/missing.mp3", "", ""); !errors.Is(err, domain.ErrAudioNotFound) {
		t.Errorf("Forget(missing) error = %v, want ErrAudioNotFound", err)
	}
	if _, err := svc.Forget(ctx, "/audio/talk.mp3", "", "!!"); !errors.Is(err, domain.ErrInvalidLanguage) {
		t.Errorf("Forget(bad language) error = %v, want ErrInvalidLanguage", err)
	}
}
