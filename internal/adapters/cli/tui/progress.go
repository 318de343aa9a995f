package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single step in the progress
type ProgressStep struct {
	Name     string
	Status   StepStatus
	Progress float64 // 0-100, only used for download steps
	Total    int64   // Total bytes for download
	Current  int64   // Current bytes for download
	Error    string
}

// OutputFile is a labelled path shown once processing completes
type OutputFile struct {
	Label string
	Path  string
}

// ProgressDisplay manages multi-step progress output
type ProgressDisplay struct {
	out        io.Writer
	steps      []ProgressStep
	spinnerIdx int
	quiet      bool
	live       bool
	printed    []bool
	mu         sync.Mutex
	lastRender time.Time
	rendered   bool
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewProgressDisplay creates a new progress display. A live display
// redraws in place; otherwise each step is printed once when it finishes.
func NewProgressDisplay(out io.Writer, steps []string, quiet, live bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:     out,
		steps:   make([]ProgressStep, len(steps)),
		quiet:   quiet,
		live:    live,
		printed: make([]bool, len(steps)),
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return pd
}

// IndexOf returns the index of the named step, or -1
func (p *ProgressDisplay) IndexOf(name string) int {
	for i, s := range p.steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// StartStep marks a step as running
func (p *ProgressDisplay) StartStep(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = StepRunning
		p.render()
	}
}

// CompleteStep marks a step as complete
func (p *ProgressDisplay) CompleteStep(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = StepComplete
		p.render()
	}
}

// CompleteRunning marks every running step as complete
func (p *ProgressDisplay) CompleteRunning() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.steps {
		if p.steps[i].Status == StepRunning {
			p.steps[i].Status = StepComplete
		}
	}
	p.render()
}

// FailStep marks a step as failed
func (p *ProgressDisplay) FailStep(index int, err string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = StepError
		p.steps[index].Error = err
		p.render()
	}
}

// FailRunning marks every running step as failed
func (p *ProgressDisplay) FailRunning(err string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.steps {
		if p.steps[i].Status == StepRunning {
			p.steps[i].Status = StepError
			p.steps[i].Error = err
		}
	}
	p.render()
}

// UpdateProgress updates download progress for a step
func (p *ProgressDisplay) UpdateProgress(index int, current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Current = current
		p.steps[index].Total = total
		if total > 0 {
			p.steps[index].Progress = float64(current) / float64(total) * 100
		}
		// Throttle renders to avoid flickering
		if p.live && time.Since(p.lastRender) > 100*time.Millisecond {
			p.render()
		}
	}
}

// Tick advances the spinner animation
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
	if p.live {
		p.render()
	}
}

// Steps returns a snapshot of the step states
func (p *ProgressDisplay) Steps() []ProgressStep {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]ProgressStep, len(p.steps))
	copy(out, p.steps)
	return out
}

func (p *ProgressDisplay) render() {
	if p.quiet {
		return
	}

	p.lastRender = time.Now()

	if !p.live {
		p.renderPlain()
		return
	}

	// Move cursor up by number of steps and clear to end of screen
	if p.rendered {
		fmt.Fprintf(p.out, "\033[%dA", len(p.steps))
		fmt.Fprint(p.out, "\033[J")
	}

	total := len(p.steps)
	for i, step := range p.steps {
		fmt.Fprintf(p.out, "[%d/%d] %s... %s\n", i+1, total, step.Name, p.status(step))
	}

	p.rendered = true
}

// renderPlain prints each step once, when it finishes
func (p *ProgressDisplay) renderPlain() {
	total := len(p.steps)
	for i, step := range p.steps {
		if p.printed[i] || (step.Status != StepComplete && step.Status != StepError) {
			continue
		}
		fmt.Fprintf(p.out, "[%d/%d] %s... %s\n", i+1, total, step.Name, p.status(step))
		p.printed[i] = true
	}
}

func (p *ProgressDisplay) status(step ProgressStep) string {
	switch step.Status {
	case StepRunning:
		if step.Total > 0 {
			return fmt.Sprintf("%.1f%% (%s / %s)", step.Progress, FormatSize(step.Current), FormatSize(step.Total))
		}
		return spinnerFrames[p.spinnerIdx]
	case StepComplete:
		return "✓"
	case StepError:
		if step.Error != "" {
			return "✗ " + step.Error
		}
		return "✗"
	default:
		return " "
	}
}

// Complete prints the final success message
func (p *ProgressDisplay) Complete(outputs []OutputFile) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "✓ Complete!")
	for _, o := range outputs {
		fmt.Fprintf(p.out, "  %s: %s\n", o.Label, o.Path)
	}
}

// StartSpinner starts a goroutine that ticks the spinner
func (p *ProgressDisplay) StartSpinner() chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()
	return done
}
