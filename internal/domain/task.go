package domain

import (
	"fmt"
	"strings"
)

// Task selects what the model produces from the audio
type Task string

const (
	// TaskTranscribe keeps the spoken language.
	TaskTranscribe Task = "transcribe"
	// TaskTranslate renders the speech in English.
	TaskTranslate Task = "translate"
)

// AllTasks lists tasks in the order outputs are produced
var AllTasks = []Task{TaskTranscribe, TaskTranslate}

// ParseTask parses a task name, accepting the output suffixes as aliases
func ParseTask(s string) (Task, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transcribe", "transcription":
		return TaskTranscribe, nil
	case "translate", "translation":
		return TaskTranslate, nil
	}
	return "", fmt.Errorf("%w: %q (use transcribe or translate)", ErrUnknownTask, s)
}

// ParseTasks parses and deduplicates task names, keeping first-seen order
func ParseTasks(names []string) ([]Task, error) {
	seen := make(map[Task]bool)
	var tasks []Task
	for _, name := range names {
		task, err := ParseTask(name)
		if err != nil {
			return nil, err
		}
		if !seen[task] {
			seen[task] = true
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Suffix returns the noun used in output file names
func (t Task) Suffix() string {
	if t == TaskTranslate {
		return "translation"
	}
	return "transcription"
}
