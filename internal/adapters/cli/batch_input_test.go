package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseInputFile(t *testing.T) {
	t.Run("parses file with comments, blank lines, quotes and relative paths", func(t *testing.T) {
		content := `# Recordings from monday
/abs/talk one.mp3
"quoted.wav"

# relative to the list
sub/interview.m4a
`
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "input.txt")
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		paths, err := ParseInputFile(filePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{
			"/abs/talk one.mp3",
			filepath.Join(tmpDir, "quoted.wav"),
			filepath.Join(tmpDir, "sub", "interview.m4a"),
		}
		if !slices.Equal(paths, expected) {
			t.Errorf("paths = %v, want %v", paths, expected)
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := ParseInputFile("/nonexistent/path/file.txt")
		if err == nil {
			t.Error("expected error for nonexistent file, got nil")
		}
	})
}

func TestCollectInputs(t *testing.T) {
	t.Run("combines args and file with deduplication", func(t *testing.T) {
		tmpDir := t.TempDir()
		a := filepath.Join(tmpDir, "a.mp3")
		content := a + "\nb.mp3\n" + filepath.Join(tmpDir, ".", "a.mp3") + "\n"
		filePath := filepath.Join(tmpDir, "input.txt")
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		// a.mp3 appears in args and twice in the file
		args := []string{a, "  " + filepath.Join(tmpDir, "c.mp3") + "  "}

		paths, err := CollectInputs(args, filePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{a, filepath.Join(tmpDir, "c.mp3"), filepath.Join(tmpDir, "b.mp3")}
		if !slices.Equal(paths, expected) {
			t.Errorf("paths = %v, want %v", paths, expected)
		}
	})

	t.Run("works with args only when filePath is empty", func(t *testing.T) {
		paths, err := CollectInputs([]string{"x.mp3", "./x.mp3", "", "y.wav"}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"x.mp3", "y.wav"}
		if !slices.Equal(paths, expected) {
			t.Errorf("paths = %v, want %v", paths, expected)
		}
	})
}

func TestCheckAudioFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.mp3")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := checkAudioFile(file); err != nil {
		t.Errorf("checkAudioFile(file) = %v", err)
	}
	if err := checkAudioFile(tmpDir); err == nil {
		t.Error("checkAudioFile(dir) should fail")
	}
	if err := checkAudioFile(filepath.Join(tmpDir, "missing.mp3")); err == nil {
		t.Error("checkAudioFile(missing) should fail")
	}
}
