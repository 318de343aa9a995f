package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devbush/whisper2srt/internal/config"
	"github.com/devbush/whisper2srt/internal/domain"
	"github.com/devbush/whisper2srt/internal/ports"
)

// Model names in listing order
var modelNames = []string{"tiny", "base", "small", "medium", "large"}

// Model sizes in bytes (approximate)
var modelSizes = map[string]int64{
	"tiny":   75 * 1024 * 1024,
	"base":   140 * 1024 * 1024,
	"small":  462 * 1024 * 1024,
	"medium": 1500 * 1024 * 1024,
	"large":  3000 * 1024 * 1024,
}

var modelDescriptions = map[string]string{
	"tiny":   "~75MB, basic accuracy, very fast",
	"base":   "~140MB, good accuracy, fast",
	"small":  "~462MB, better accuracy, moderate speed",
	"medium": "~1.5GB, great accuracy, slower",
	"large":  "~3GB, best accuracy, slow",
}

// Transcriber implements ports.Transcriber using whisper.cpp
type Transcriber struct {
	modelsDir string
	binPath   string
	client    *http.Client
	log       zerolog.Logger
}

// Option configures a Transcriber
type Option func(*Transcriber)

// WithBinaryPath pins the whisper.cpp binary instead of searching for it
func WithBinaryPath(path string) Option {
	return func(t *Transcriber) { t.binPath = path }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(t *Transcriber) { t.log = l }
}

// WithHTTPClient sets the client used for model downloads
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transcriber) { t.client = c }
}

// NewTranscriber creates a new Whisper transcriber
func NewTranscriber(modelsDir string, opts ...Option) *Transcriber {
	if modelsDir == "" {
		modelsDir = config.ModelsDir()
	}
	t := &Transcriber{
		modelsDir: modelsDir,
		client:    http.DefaultClient,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

func modelURL(name string) string {
	return fmt.Sprintf("%s/ggml-%s.bin", modelBaseURL, name)
}

// ModelURL returns the download URL for a known model
func ModelURL(name string) (string, error) {
	if _, ok := modelSizes[name]; !ok {
		return "", fmt.Errorf("%w: %q (available: %s)", domain.ErrUnknownModel, name, strings.Join(modelNames, ", "))
	}
	return modelURL(name), nil
}

func (t *Transcriber) modelPath(name string) string {
	return filepath.Join(t.modelsDir, fmt.Sprintf("ggml-%s.bin", name))
}

func (t *Transcriber) AvailableModels() []ports.Model {
	models := make([]ports.Model, 0, len(modelNames))
	for _, name := range modelNames {
		models = append(models, ports.Model{
			Name:        name,
			Size:        modelSizes[name],
			Description: modelDescriptions[name],
			Downloaded:  t.IsModelDownloaded(name),
		})
	}
	return models
}

func (t *Transcriber) IsModelDownloaded(model string) bool {
	_, err := os.Stat(t.modelPath(model))
	return err == nil
}

func (t *Transcriber) DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error {
	url, err := ModelURL(model)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(t.modelsDir, 0755); err != nil {
		return err
	}

	destPath := t.modelPath(model)

	// Another process may be fetching the same model.
	lock := flock.New(destPath + ".lock")
	locked, err := lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock model %s: %w", model, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock model %s", model)
	}
	defer lock.Unlock()

	if t.IsModelDownloaded(model) {
		return nil
	}

	tempPath := destPath + ".tmp"
	t.log.Info().Str("model", model).Str("url", url).Msg("downloading model")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download model: HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	// Track success to clean up partial downloads on failure
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tempPath)
		}
	}()

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return err
	}

	success = true
	return nil
}

func (t *Transcriber) DeleteModel(model string) error {
	return os.Remove(t.modelPath(model))
}

// GetBinaryPath returns the whisper.cpp binary in use, or "" if none is found
func (t *Transcriber) GetBinaryPath() string {
	if t.binPath != "" {
		return t.binPath
	}
	t.binPath = t.findWhisperBinary()
	return t.binPath
}

// IsAvailable checks if whisper.cpp is installed
func (t *Transcriber) IsAvailable() bool {
	return t.GetBinaryPath() != ""
}

// Instructions returns platform-specific installation instructions
func (t *Transcriber) Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "whisper.cpp not found. Install it with: brew install whisper-cpp"
	case "windows":
		return fmt.Sprintf("whisper.cpp not found. Download a release from https://github.com/ggml-org/whisper.cpp/releases and place whisper-cli.exe in %s", config.BinDir())
	default:
		return fmt.Sprintf("whisper.cpp not found. Build it from https://github.com/ggml-org/whisper.cpp and place whisper-cli in %s or on your PATH", config.BinDir())
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, wavPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	model := opts.Model
	if model == "" {
		model = "medium"
	}
	task := opts.Task
	if task == "" {
		task = domain.TaskTranscribe
	}

	if !t.IsModelDownloaded(model) {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
	}

	whisperBin := t.GetBinaryPath()
	if whisperBin == "" {
		return nil, domain.ErrWhisperNotFound
	}

	outputBase := filepath.Join(os.TempDir(), "whisper2srt_"+uuid.NewString())
	args := buildArgs(t.modelPath(model), wavPath, outputBase, opts.Language, task)

	t.log.Debug().Str("bin", whisperBin).Strs("args", args).Msg("running whisper.cpp")

	// whisper.cpp may leave partial output behind when it fails
	jsonPath := outputBase + ".json"
	defer os.Remove(jsonPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, whisperBin, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", domain.ErrTranscriptionFailed, err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read whisper output: %v", domain.ErrTranscriptionFailed, err)
	}

	transcript, err := parseWhisperJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
	}

	transcript.Model = model
	transcript.Task = task
	if transcript.Language == "" {
		transcript.Language = opts.Language
	}
	transcript.TranscribedAt = time.Now()
	return transcript, nil
}

func buildArgs(modelPath, wavPath, outputBase, language string, task domain.Task) []string {
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-of", outputBase,
		"-oj", // JSON output
	}

	// whisper.cpp assumes English unless told otherwise.
	if language == "" {
		language = "auto"
	}
	args = append(args, "-l", language)

	if task == domain.TaskTranslate {
		args = append(args, "-tr")
	}
	return args
}

func (t *Transcriber) findWhisperBinary() string {
	names := []string{"whisper-cli", "whisper", "whisper-cpp", "main"}
	if runtime.GOOS == "windows" {
		for i := range names {
			names[i] += ".exe"
		}
	}

	// Check bundled location
	for _, name := range names {
		bundled := filepath.Join(config.BinDir(), name)
		if _, err := os.Stat(bundled); err == nil {
			return bundled
		}
	}

	// Check PATH
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Timestamps struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"timestamps"`
		Offsets *struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON adapts whisper.cpp -oj output into a transcript.
// Segments are validated here; blank segments are dropped.
func parseWhisperJSON(data []byte) (*domain.Transcript, error) {
	var output whisperOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	var segments []domain.Segment
	var fullText strings.Builder

	for i, item := range output.Transcription {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}

		var start, end float64
		if item.Offsets != nil {
			start = float64(item.Offsets.From) / 1000
			end = float64(item.Offsets.To) / 1000
		} else {
			var err error
			if start, err = parseTimestamp(item.Timestamps.From); err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			if end, err = parseTimestamp(item.Timestamps.To); err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
		}

		seg := domain.Segment{Start: start, End: end, Text: text}
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)

		if fullText.Len() > 0 {
			fullText.WriteString(" ")
		}
		fullText.WriteString(text)
	}

	return &domain.Transcript{
		Text:     fullText.String(),
		Segments: segments,
		Language: output.Result.Language,
	}, nil
}

var timestampRegex = regexp.MustCompile(`^(\d+):(\d+):(\d+)[,.](\d+)$`)

func parseTimestamp(ts string) (float64, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if len(matches) != 5 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	// The fraction is a decimal fraction of a second, not a millisecond count
	frac := (matches[4] + "000")[:3]
	millis, _ := strconv.Atoi(frac)

	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Ensure Transcriber implements interface
var _ ports.Transcriber = (*Transcriber)(nil)
