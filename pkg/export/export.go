// Package export serializes analyzed benchmark results for downstream
// consumption. MarkdownExporter is the one representative serializer
// whose numeric-formatting contract the rest of the system is pinned to.
package export

import (
	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/units"
)

// Exporter turns a set of BenchmarkResults, compared by relative speed,
// into a byte stream. unit, if non-nil, forces the display unit for
// every entry; otherwise the exporter resolves one itself.
type Exporter interface {
	Serialize(results []aggregate.BenchmarkResult, unit *units.Unit) ([]byte, error)
}
