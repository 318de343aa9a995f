package application

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/devbush/whisper2srt/internal/domain"
)

func TestFingerprint(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/a.mp3", []byte("same bytes"), 0644)
	afero.WriteFile(fs, "/copy/b.mp3", []byte("same bytes"), 0644)
	afero.WriteFile(fs, "/c.mp3", []byte("other bytes"), 0644)

	key := func(path, model, lang string) string {
		t.Helper()
		k, err := Fingerprint(fs, path, model, lang)
		if err != nil {
			t.Fatalf("Fingerprint(%s) error = %v", path, err)
		}
		return k
	}

	base := key("/a.mp3", "small", "")
	if len(base) != 16 {
		t.Errorf("key %q should be 16 hex chars", base)
	}
	if base != key("/a.mp3", "small", "") {
		t.Error("key should be stable")
	}
	if base != key("/copy/b.mp3", "small", "") {
		t.Error("identical contents should share a key")
	}
	if base == key("/c.mp3", "small", "") {
		t.Error("different contents should not share a key")
	}
	if base == key("/a.mp3", "medium", "") {
		t.Error("model should change the key")
	}
	if base == key("/a.mp3", "small", "no") {
		t.Error("language should change the key")
	}
}

func TestFingerprint_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll("/dir", 0755)

	for _, path := range []string{"/nope.mp3", "/dir"} {
		if _, err := Fingerprint(fs, path, "small", ""); !errors.Is(err, domain.ErrAudioNotFound) {
			t.Errorf("Fingerprint(%s) error = %v, want ErrAudioNotFound", path, err)
		}
	}
}
