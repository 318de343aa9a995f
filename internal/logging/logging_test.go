package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("Format = %s, want console", cfg.Format)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid console", Config{Level: "info", Format: "console"}, false},
		{"valid json upper case", Config{Level: "DEBUG", Format: "JSON"}, false},
		{"bad level", Config{Level: "loud", Format: "console"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Level: "debug", Format: FormatJSON}, &buf), "encoder")

	log.Debug().Int("cues", 2).Msg("wrote subtitles")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry[FieldComponent] != "encoder" {
		t.Errorf("component = %v, want encoder", entry[FieldComponent])
	}
	if entry["message"] != "wrote subtitles" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["cues"] != float64(2) {
		t.Errorf("cues = %v, want 2", entry["cues"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: FormatJSON}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}
