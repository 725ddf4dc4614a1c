// Package ui reports benchmark progress and summaries to a writer,
// separate from the machine-facing exporters in pkg/export.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tavianator/hyperfine/pkg/analyze"
	"github.com/tavianator/hyperfine/pkg/units"
)

// Reporter handles human-readable status reporting and terminal output
// for a benchmark run.
type Reporter struct {
	writer io.Writer
	quiet  bool
}

// NewReporter creates a new status reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{writer: w}
}

// SetQuiet enables or disables quiet mode (suppresses real-time messages).
func (r *Reporter) SetQuiet(quiet bool) {
	r.quiet = quiet
}

// BenchmarkStart announces the (1-indexed) benchmark about to run.
func (r *Reporter) BenchmarkStart(index, total int, commandLine string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.writer, "Benchmark %d/%d: %s\n", index, total, commandLine)
}

// WarmupRun reports progress through the warmup phase.
func (r *Reporter) WarmupRun(run, total int) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.writer, "  Warmup %d/%d\n", run, total)
}

// Run reports progress through the measured phase.
func (r *Reporter) Run(run, total int, elapsed units.Second) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.writer, "  Time (%4d/%d): %s\n", run, total, formatSeconds(elapsed))
}

// Warning reports a non-fatal condition observed during a run (e.g.,
// a command's output suggests an interactive prompt, or a signal was
// caught). Warnings are shown even in quiet mode.
func (r *Reporter) Warning(message string) {
	fmt.Fprintf(r.writer, "Warning: %s\n", message)
}

// Summary reports one command's aggregated statistics.
func (r *Reporter) Summary(result analyze.BenchmarkResultWithRelativeSpeed) {
	fmt.Fprintf(r.writer, "  Time (mean ± σ):     %s ± %s    [User: %s, System: %s]\n",
		formatSeconds(result.Mean), formatOptionalSeconds(result.Stddev),
		formatSeconds(result.User), formatSeconds(result.System))
	fmt.Fprintf(r.writer, "  Range (min … max):   %s … %s\n", formatSeconds(result.Min), formatSeconds(result.Max))
}

// RelativeSummary reports how much slower each non-fastest entry was
// relative to the fastest, in the "'x' ran N.NN ± M.MM times faster"
// style hyperfine's human-facing summary uses.
func (r *Reporter) RelativeSummary(results []analyze.BenchmarkResultWithRelativeSpeed) {
	var fastest *analyze.BenchmarkResultWithRelativeSpeed
	for i := range results {
		if results[i].IsFastest {
			fastest = &results[i]
			break
		}
	}
	if fastest == nil {
		return
	}

	fmt.Fprintf(r.writer, "\nSummary\n  '%s' ran\n", fastest.Command)
	for _, entry := range results {
		if entry.IsFastest {
			continue
		}
		stddevStr := ""
		if entry.RelativeSpeedStddev != nil {
			stddevStr = fmt.Sprintf(" ± %.2f", *entry.RelativeSpeedStddev)
		}
		fmt.Fprintf(r.writer, "    %.2f%s times faster than '%s'\n", entry.RelativeSpeed, stddevStr, entry.Command)
	}
}

func formatOptionalSeconds(value *units.Second) string {
	if value == nil {
		return "n/a"
	}
	return formatSeconds(*value)
}

// formatSeconds formats a duration, given in seconds, in a
// human-readable way (as opposed to pkg/units' fixed-decimal exporter
// format): sub-second durations get one decimal and an "ms" suffix,
// longer ones collapse to "HhMmSs" style.
func formatSeconds(value units.Second) string {
	return formatDuration(time.Duration(value * float64(time.Second)))
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}

	if d < time.Minute {
		seconds := float64(d) / float64(time.Second)
		if seconds == float64(int(seconds)) {
			return fmt.Sprintf("%.0fs", seconds)
		}
		formatted := fmt.Sprintf("%.2f", seconds)
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
		return formatted + "s"
	}

	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second

	if hours > 0 {
		switch {
		case minutes > 0 && seconds > 0:
			return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
		case minutes > 0:
			return fmt.Sprintf("%dh%dm", hours, minutes)
		case seconds > 0:
			return fmt.Sprintf("%dh%ds", hours, seconds)
		default:
			return fmt.Sprintf("%dh", hours)
		}
	}

	if minutes > 0 {
		if seconds > 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%ds", seconds)
}
