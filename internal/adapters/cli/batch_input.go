package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ParseInputFile reads a file listing audio paths, one per line.
// Blank lines and lines starting with # are ignored. Relative paths are
// resolved against the list file's directory.
func ParseInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	baseDir := filepath.Dir(path)

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := cleanPathInput(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}
		paths = append(paths, filepath.Clean(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}

// CollectInputs combines CLI arguments and file input, deduplicating.
// Args are processed first, then file entries.
// Returns paths in order of first appearance.
func CollectInputs(args []string, filePath string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			paths = append(paths, p)
		}
	}

	// Process CLI args first
	for _, arg := range args {
		if arg = cleanPathInput(arg); arg != "" {
			add(filepath.Clean(arg))
		}
	}

	// Process file if provided
	if filePath != "" {
		filePaths, err := ParseInputFile(filePath)
		if err != nil {
			return nil, err
		}
		for _, p := range filePaths {
			add(p)
		}
	}

	return paths, nil
}

// cleanPathInput trims whitespace and one pair of surrounding quotes
func cleanPathInput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}
