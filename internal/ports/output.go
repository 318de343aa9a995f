package ports

import "io"

// FileWriter persists a rendered document.
type FileWriter interface {
	// WriteFile calls fn with a writer for path. Implementations must leave
	// path untouched when fn returns an error.
	WriteFile(path string, fn func(io.Writer) error) error
}
