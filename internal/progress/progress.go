// Package progress renders item-count progress bars for long-running CLI
// stages. Ticks may arrive from any worker goroutine; the underlying bar is
// safe for that and delivery is best effort.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Options configures progress output behavior.
type Options struct {
	Quiet   bool
	Verbose bool
}

// Manager handles the stage progress bar and leveled printing.
type Manager struct {
	options Options
	bar     *progressbar.ProgressBar
}

// NewManager creates a new progress manager.
func NewManager(options Options) *Manager {
	return &Manager{options: options}
}

// StartStage initializes a bar over total items for the named stage.
func (pm *Manager) StartStage(total int, description string) {
	if pm.options.Quiet {
		return
	}

	pm.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(65),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			// #nosec G104 - progress bar completion message is not critical
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}

// Tick advances the bar by one item. Safe to call from worker goroutines.
func (pm *Manager) Tick() {
	if pm.options.Quiet || pm.bar == nil {
		return
	}
	// #nosec G104 - progress bar errors are not critical for functionality
	pm.bar.Add(1)
}

// FinishStage marks the current stage as complete.
func (pm *Manager) FinishStage() {
	if pm.options.Quiet || pm.bar == nil {
		return
	}
	// #nosec G104 - progress bar errors are not critical for functionality
	pm.bar.Finish()
}

// PrintVerbose prints diagnostic detail if verbose mode is enabled.
func (pm *Manager) PrintVerbose(format string, args ...interface{}) {
	if !pm.options.Verbose {
		return
	}
	if pm.bar != nil {
		// Clear the progress bar before printing to avoid line breaks
		// #nosec G104 - progress bar clear is not critical for functionality
		pm.bar.Clear()
	}
	// #nosec G104 - verbose output errors are not critical for functionality
	fmt.Printf(format, args...)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		fmt.Println()
	}
}

// PrintInfo prints informational messages (unless quiet mode).
func (pm *Manager) PrintInfo(format string, args ...interface{}) {
	if pm.options.Quiet {
		return
	}
	if pm.bar != nil {
		// #nosec G104 - progress bar clear is not critical for functionality
		pm.bar.Clear()
	}
	// #nosec G104 - info output errors are not critical for functionality
	fmt.Printf(format, args...)
}
