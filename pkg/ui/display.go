package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"mdc-go/internal/batch"
)

// BatchProgressDisplay renders the Batch Coordinator's progress as a
// single-line bar plus a boxed final summary. Adapted from the teacher's
// MovieProgressDisplay, narrowed to what the coordinator's
// batch.ProgressFunc contract actually reports (completed/total and, once
// finished, a batch.Stats) rather than the teacher's live per-crawler
// status tracking, which the registry has no equivalent hook for.
type BatchProgressDisplay struct {
	total     int
	completed int
	current   string
	startTime time.Time
	mutex     sync.RWMutex
}

// NewBatchProgressDisplay creates a display for a run of total files.
func NewBatchProgressDisplay(total int) *BatchProgressDisplay {
	return &BatchProgressDisplay{total: total, startTime: time.Now()}
}

// Update records progress after one file finishes; wire this as (or into)
// the batch.ProgressFunc passed to Coordinator.ProcessBatch.
func (d *BatchProgressDisplay) Update(completed, total int, currentFile string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.completed = completed
	d.total = total
	d.current = currentFile
}

// Render renders the current progress bar.
func (d *BatchProgressDisplay) Render() string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	progress := 0.0
	if d.total > 0 {
		progress = float64(d.completed) / float64(d.total)
	}

	bar := d.progressBar(progress, 20)
	line := fmt.Sprintf("[%d/%d] %s", d.completed, d.total, bar)
	if d.current != "" {
		line += " " + DimText(d.current)
	}
	return line
}

func (d *BatchProgressDisplay) progressBar(progress float64, width int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}

	filled := int(progress * float64(width))
	remaining := width - filled

	filledBar := ProgressBarFilled(strings.Repeat("█", filled))
	emptyBar := ProgressBarEmpty(strings.Repeat("░", remaining))
	percentage := BoldText(fmt.Sprintf("%.1f%%", progress*100))

	return fmt.Sprintf("%s%s %s", filledBar, emptyBar, percentage)
}

// FinalSummary renders a boxed summary of a finished run's batch.Stats.
func (d *BatchProgressDisplay) FinalSummary(stats batch.Stats) string {
	elapsed := time.Since(d.startTime)

	content := fmt.Sprintf("Total Files: %d\n", stats.Total)
	content += fmt.Sprintf("%s Succeeded: %d\n", SuccessIcon(), stats.Succeeded)
	content += fmt.Sprintf("%s Failed: %d\n", ErrorIcon(), stats.Failed)
	content += fmt.Sprintf("%s Skipped: %d\n", WarningIcon(), stats.Skipped)
	if stats.Cancelled > 0 {
		content += fmt.Sprintf("%s Cancelled: %d\n", WarningIcon(), stats.Cancelled)
	}
	content += fmt.Sprintf("Elapsed: %s", FormatDuration(elapsed.Seconds()))

	return CreateBox(Success("Batch Complete"), content, 35)
}

// FailureReport renders one line per failed or cancelled result, for a
// caller that wants to print what went wrong after a run.
func FailureReport(results []batch.Result) string {
	var out strings.Builder
	for _, r := range results {
		if r.Status != batch.StatusFailed && r.Status != batch.StatusCancelled {
			continue
		}
		out.WriteString(fmt.Sprintf("%s %s: %v\n", ErrorIcon(), r.Path, r.Err))
	}
	return out.String()
}
