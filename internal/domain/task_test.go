package domain

import (
	"errors"
	"testing"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		input   string
		want    Task
		wantErr bool
	}{
		{"transcribe", TaskTranscribe, false},
		{"Transcription", TaskTranscribe, false},
		{" translate ", TaskTranslate, false},
		{"translation", TaskTranslate, false},
		{"summarize", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTask(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTask(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownTask) {
				t.Errorf("ParseTask(%q) error = %v, want ErrUnknownTask", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTask(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTasks_Dedupes(t *testing.T) {
	tasks, err := ParseTasks([]string{"translate", "transcribe", "translation"})
	if err != nil {
		t.Fatalf("ParseTasks() error = %v", err)
	}
	if len(tasks) != 2 || tasks[0] != TaskTranslate || tasks[1] != TaskTranscribe {
		t.Errorf("ParseTasks() = %v, want [translate transcribe]", tasks)
	}
}

func TestTask_Suffix(t *testing.T) {
	if got := TaskTranscribe.Suffix(); got != "transcription" {
		t.Errorf("TaskTranscribe.Suffix() = %q", got)
	}
	if got := TaskTranslate.Suffix(); got != "translation" {
		t.Errorf("TaskTranslate.Suffix() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		ext     string
		wantErr bool
	}{
		{"srt", FormatSRT, "srt", false},
		{"SRT", FormatSRT, "srt", false},
		{"text", FormatText, "txt", false},
		{"txt", FormatText, "txt", false},
		{"json", FormatJSON, "json", false},
		{"vtt", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got.Ext() != tt.ext {
				t.Errorf("Ext() = %q, want %q", got.Ext(), tt.ext)
			}
		})
	}
}
