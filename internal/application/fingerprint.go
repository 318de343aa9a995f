package application

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
)

// Fingerprint returns the cache key for an audio file transcribed with the
// given model and language hint. The key depends on file contents, not its
// path, so renamed or copied files still hit the cache.
func Fingerprint(fs afero.Fs, path, model, language string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrAudioNotFound, path)
		}
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrAudioNotFound, path)
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	h.WriteString("\x00" + model + "\x00" + language)

	return fmt.Sprintf("%016x", h.Sum64()), nil
}
