package ports

import "context"

// AudioExtractor converts arbitrary audio or video input into the WAV
// layout the transcriber reads.
type AudioExtractor interface {
	// ExtractAudio writes a 16 kHz mono PCM WAV of src to dest.
	ExtractAudio(ctx context.Context, src, dest string) error

	// IsAvailable checks if the converter binary is installed.
	IsAvailable() bool

	// GetBinaryPath returns the path to the converter binary.
	GetBinaryPath() string

	// Instructions returns platform-specific installation instructions.
	Instructions() string
}
