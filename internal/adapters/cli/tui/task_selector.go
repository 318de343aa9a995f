package tui

import "github.com/devbush/whisper2srt/internal/domain"

// taskOptions lists the subtitle files the interactive flow can produce
func taskOptions(defaults []domain.Task) []CheckboxOption {
	checked := make(map[domain.Task]bool)
	for _, t := range defaults {
		checked[t] = true
	}
	return []CheckboxOption{
		{Label: "Transcription (spoken language)", Value: string(domain.TaskTranscribe), Checked: checked[domain.TaskTranscribe]},
		{Label: "Translation (English)", Value: string(domain.TaskTranslate), Checked: checked[domain.TaskTranslate]},
	}
}

func tasksFromValues(values []string) []domain.Task {
	tasks := make([]domain.Task, 0, len(values))
	for _, v := range values {
		if task, err := domain.ParseTask(v); err == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// RunTaskSelector asks which subtitle files to produce. It returns nil if
// the user cancelled.
func RunTaskSelector(defaults []domain.Task) ([]domain.Task, error) {
	selected, err := RunCheckbox("Which subtitles do you want?", taskOptions(defaults))
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return nil, nil // Cancelled
	}
	return tasksFromValues(selected), nil
}
