package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/analyze"
	"github.com/tavianator/hyperfine/pkg/units"
)

// ErrExportFailed is returned when the exporter's preconditions are
// unmet, e.g. relative speed could not be computed for the input.
var ErrExportFailed = errors.New("export: relative speed comparison is not available for Markdown export")

// MarkdownExporter renders a GitHub-flavored markdown table.
type MarkdownExporter struct{}

// NewMarkdownExporter returns a ready-to-use MarkdownExporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Serialize resolves the display unit (explicit unit, else the unit
// implied by the first result's mean, else seconds for an empty input),
// computes relative speed over results, and renders one table row per
// entry in input order.
func (e *MarkdownExporter) Serialize(results []aggregate.BenchmarkResult, unit *units.Unit) ([]byte, error) {
	resolved := units.UnitSecond
	switch {
	case unit != nil:
		resolved = *unit
	case len(results) > 0:
		_, resolved = units.FormatDuration(results[0].Mean, nil)
	}

	annotated, err := analyze.Compute(results)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	var buf bytes.Buffer
	buf.WriteString(tableHeader(resolved))
	for _, entry := range annotated {
		writeTableRow(&buf, entry, resolved)
	}
	return buf.Bytes(), nil
}

func tableHeader(unit units.Unit) string {
	name := unit.ShortName()
	return fmt.Sprintf("| Command | Mean [%s] | Min [%s] | Max [%s] | Relative |\n|:---|---:|---:|---:|---:|\n", name, name, name)
}

func writeTableRow(buf *bytes.Buffer, entry analyze.BenchmarkResultWithRelativeSpeed, unit units.Unit) {
	command := strings.ReplaceAll(entry.Command, "|", "\\|")

	meanStr := unit.Format(entry.Mean)
	stddevStr := ""
	if entry.Stddev != nil {
		stddevStr = " ± " + unit.Format(*entry.Stddev)
	}

	relStr := fmt.Sprintf("%.2f", entry.RelativeSpeed)
	relStddevStr := ""
	if !entry.IsFastest && entry.RelativeSpeedStddev != nil {
		relStddevStr = fmt.Sprintf(" ± %.2f", *entry.RelativeSpeedStddev)
	}

	fmt.Fprintf(buf, "| `%s` | %s%s | %s | %s | %s%s |\n",
		command, meanStr, stddevStr, unit.Format(entry.Min), unit.Format(entry.Max), relStr, relStddevStr)
}
