package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

const (
	metaName          = "meta.json.zst"
	defaultMemEntries = 64
)

// Shared codecs; EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// FileCache stores one compressed meta file per key, fronted by an
// in-memory LRU.
type FileCache struct {
	fs      afero.Fs
	baseDir string
	mem     *lru.Cache[string, *ports.CachedItem]
	now     func() time.Time
}

// Option configures a FileCache
type Option func(*FileCache)

// WithFs sets the filesystem, defaults to the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(c *FileCache) { c.fs = fs }
}

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *FileCache) { c.now = now }
}

// WithMemoryEntries sets how many items the in-memory front keeps
func WithMemoryEntries(n int) Option {
	return func(c *FileCache) {
		if n > 0 {
			c.mem, _ = lru.New[string, *ports.CachedItem](n)
		}
	}
}

func NewFileCache(baseDir string, opts ...Option) *FileCache {
	mem, _ := lru.New[string, *ports.CachedItem](defaultMemEntries)
	c := &FileCache{
		fs:      afero.NewOsFs(),
		baseDir: baseDir,
		mem:     mem,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type metaFile struct {
	Source      string                             `json:"source"`
	Model       string                             `json:"model"`
	Language    string                             `json:"language,omitempty"`
	Transcripts map[domain.Task]*domain.Transcript `json:"transcripts"`
	CreatedAt   time.Time                          `json:"created_at"`
	ExpiresAt   time.Time                          `json:"expires_at"`
}

func (c *FileCache) GetCacheDir(key string) string {
	return filepath.Join(c.baseDir, key)
}

func (c *FileCache) metaPath(key string) string {
	return filepath.Join(c.GetCacheDir(key), metaName)
}

func (c *FileCache) Get(ctx context.Context, key string) (*ports.CachedItem, error) {
	if item, ok := c.mem.Get(key); ok {
		if c.now().After(item.ExpiresAt) {
			c.mem.Remove(key)
			return nil, domain.ErrCacheExpired
		}
		return item, nil
	}

	item, err := c.read(key)
	if err != nil {
		return nil, err
	}

	if c.now().After(item.ExpiresAt) {
		return nil, domain.ErrCacheExpired
	}

	c.mem.Add(key, item)
	return item, nil
}

func (c *FileCache) read(key string) (*ports.CachedItem, error) {
	compressed, err := afero.ReadFile(c.fs, c.metaPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}

	var meta metaFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}

	return &ports.CachedItem{
		Source:      meta.Source,
		Model:       meta.Model,
		Language:    meta.Language,
		Transcripts: meta.Transcripts,
		CreatedAt:   meta.CreatedAt,
		ExpiresAt:   meta.ExpiresAt,
	}, nil
}

func (c *FileCache) Set(ctx context.Context, key string, item *ports.CachedItem) error {
	cacheDir := c.GetCacheDir(key)
	if err := c.fs.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	meta := metaFile{
		Source:      item.Source,
		Model:       item.Model,
		Language:    item.Language,
		Transcripts: item.Transcripts,
		CreatedAt:   item.CreatedAt,
		ExpiresAt:   item.ExpiresAt,
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(c.fs, c.metaPath(key), encoder.EncodeAll(data, nil), 0644); err != nil {
		return err
	}

	c.mem.Add(key, item)
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	c.mem.Remove(key)
	return c.fs.RemoveAll(c.GetCacheDir(key))
}

func (c *FileCache) CleanExpired(ctx context.Context) (int, error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return cleaned, err
		}

		key := entry.Name()
		_, err := c.Get(ctx, key)
		if errors.Is(err, domain.ErrCacheExpired) {
			if err := c.Delete(ctx, key); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	c.mem.Purge()

	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			_ = c.fs.RemoveAll(filepath.Join(c.baseDir, entry.Name()))
		}
	}

	return nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		itemCount++

		dirPath := filepath.Join(c.baseDir, entry.Name())
		_ = afero.Walk(c.fs, dirPath, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				totalSize += info.Size()
			}
			return nil
		})
	}

	return itemCount, totalSize, nil
}

var _ ports.CacheStore = (*FileCache)(nil)
