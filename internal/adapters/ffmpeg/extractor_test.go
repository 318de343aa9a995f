package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/devbush/whisper2srt/internal/domain"
)

func TestBinaryName(t *testing.T) {
	name := binaryName()

	if runtime.GOOS == "windows" {
		if name != "ffmpeg.exe" {
			t.Errorf("binaryName() = %s, want ffmpeg.exe on Windows", name)
		}
	} else {
		if name != "ffmpeg" {
			t.Errorf("binaryName() = %s, want ffmpeg", name)
		}
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("talk.mp4", "/tmp/talk.wav")

	if args[len(args)-1] != "/tmp/talk.wav" {
		t.Errorf("destination should be last, got %v", args)
	}
	if i := slices.Index(args, "-i"); i < 0 || args[i+1] != "talk.mp4" {
		t.Errorf("input flag missing: %v", args)
	}
	if i := slices.Index(args, "-ar"); i < 0 || args[i+1] != "16000" {
		t.Errorf("sample rate flag missing: %v", args)
	}
	if i := slices.Index(args, "-ac"); i < 0 || args[i+1] != "1" {
		t.Errorf("mono flag missing: %v", args)
	}
	if !slices.Contains(args, "-nostdin") {
		t.Errorf("ffmpeg must not read stdin: %v", args)
	}
}

func TestWithBinaryPath(t *testing.T) {
	e := NewExtractor(WithBinaryPath("/opt/ffmpeg"))
	if e.GetBinaryPath() != "/opt/ffmpeg" {
		t.Errorf("GetBinaryPath() = %s, want /opt/ffmpeg", e.GetBinaryPath())
	}
	if !e.IsAvailable() {
		t.Error("IsAvailable() = false with pinned binary")
	}
}

func TestInstructions(t *testing.T) {
	if NewExtractor().Instructions() == "" {
		t.Error("Instructions() returned empty string")
	}
}

func TestExtractAudio_MissingSource(t *testing.T) {
	e := NewExtractor(WithBinaryPath("/opt/ffmpeg"))

	err := e.ExtractAudio(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"), "out.wav")
	if !errors.Is(err, domain.ErrAudioNotFound) {
		t.Errorf("ExtractAudio() error = %v, want ErrAudioNotFound", err)
	}
}

func TestExtractAudio_FakeBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script binary")
	}

	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "in.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	// Copies the input to the last argument.
	script := "#!/bin/sh\nin=\"\"\nwhile [ $# -gt 1 ]; do\n  if [ \"$1\" = \"-i\" ]; then in=\"$2\"; fi\n  shift\ndone\ncp \"$in\" \"$1\"\n"
	bin := filepath.Join(tmpDir, "ffmpeg")
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "work", "in.wav")
	e := NewExtractor(WithBinaryPath(bin))
	if err := e.ExtractAudio(context.Background(), src, dest); err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if string(data) != "audio" {
		t.Errorf("output = %q, want audio", data)
	}
}

func TestExtractAudio_BinaryFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script binary")
	}

	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "in.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(tmpDir, "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho 'Invalid data found' >&2\nexit 1\n"), 0755); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(WithBinaryPath(bin))
	err := e.ExtractAudio(context.Background(), src, filepath.Join(tmpDir, "out.wav"))
	if err == nil {
		t.Fatal("ExtractAudio() expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Errorf("error should carry ffmpeg stderr, got: %v", err)
	}
}
