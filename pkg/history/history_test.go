package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavianator/hyperfine/pkg/aggregate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "history.sqlite")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesNestedDirectoryAndSchema(t *testing.T) {
	// Given a database path whose parent directory does not exist yet
	// When opening a store at that path
	store := newTestStore(t)

	// Then it opens without error and is immediately usable
	stats, err := store.Stats("true")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Observations)
}

func TestStore_RecordAndRecentRuns(t *testing.T) {
	// Given a store and an aggregated result with parameters
	store := newTestStore(t)
	stddev := 0.002
	result := aggregate.BenchmarkResult{
		Command:        "sleep 0.1",
		Parameters:     map[string]string{"mode": "fast"},
		ParameterOrder: []string{"mode"},
		Mean:           0.1057,
		Stddev:         &stddev,
		Median:         0.1057,
		Min:            0.1023,
		Max:            0.1080,
		User:           0.0009,
		System:         0.0011,
		ExitCodes:      []aggregate.ExitCode{{Code: 0, Present: true}, {Code: 0, Present: true}},
	}

	// When recorded and read back
	require.NoError(t, store.Record(result))
	runs, err := store.RecentRuns("sleep 0.1", 10)

	// Then the run is returned with its fields and parameter order intact
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "sleep 0.1", runs[0].Command)
	assert.Equal(t, map[string]string{"mode": "fast"}, runs[0].Parameters)
	assert.Equal(t, []string{"mode"}, runs[0].ParameterOrder)
	assert.Equal(t, 0.1057, runs[0].Mean)
	require.NotNil(t, runs[0].Stddev)
	assert.Equal(t, 0.002, *runs[0].Stddev)
	assert.Equal(t, 2, runs[0].RunCount)
}

func TestStore_RecordWithoutStddev(t *testing.T) {
	// Given a single-sample result with no stddev
	store := newTestStore(t)
	result := aggregate.BenchmarkResult{Command: "true", Mean: 0.001, Median: 0.001, Min: 0.001, Max: 0.001}

	// When recorded and read back
	require.NoError(t, store.Record(result))
	runs, err := store.RecentRuns("true", 1)

	// Then the stddev field is nil rather than zero
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Stddev)
}

func TestStore_RecentRunsOrdersNewestFirstAndRespectsLimit(t *testing.T) {
	// Given three recorded runs for the same command
	store := newTestStore(t)
	for _, mean := range []float64{1.0, 2.0, 3.0} {
		require.NoError(t, store.Record(aggregate.BenchmarkResult{Command: "true", Mean: mean, Median: mean, Min: mean, Max: mean}))
	}

	// When reading back the 2 most recent
	runs, err := store.RecentRuns("true", 2)

	// Then exactly 2 are returned, most recently inserted first
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3.0, runs[0].Mean)
	assert.Equal(t, 2.0, runs[1].Mean)
}

func TestStore_RecentRunsFiltersByCommand(t *testing.T) {
	// Given runs recorded for two different commands
	store := newTestStore(t)
	require.NoError(t, store.Record(aggregate.BenchmarkResult{Command: "a", Mean: 1.0, Median: 1.0, Min: 1.0, Max: 1.0}))
	require.NoError(t, store.Record(aggregate.BenchmarkResult{Command: "b", Mean: 2.0, Median: 2.0, Min: 2.0, Max: 2.0}))

	// When querying for just "a"
	runs, err := store.RecentRuns("a", 10)

	// Then only "a"'s run is returned
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].Command)
}

func TestStore_Stats(t *testing.T) {
	// Given three recorded runs for one command with known means
	store := newTestStore(t)
	for _, mean := range []float64{1.0, 2.0, 3.0} {
		require.NoError(t, store.Record(aggregate.BenchmarkResult{Command: "true", Mean: mean, Median: mean, Min: mean, Max: mean}))
	}

	// When computing stats
	stats, err := store.Stats("true")

	// Then observation count and min/max/avg mean are correct
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Observations)
	assert.Equal(t, 1.0, stats.BestMean)
	assert.Equal(t, 3.0, stats.WorstMean)
	assert.InDelta(t, 2.0, stats.AverageMean, 1e-9)
}

func TestStore_StatsForUnknownCommandIsEmpty(t *testing.T) {
	// Given a store with no recorded runs
	store := newTestStore(t)

	// When computing stats for a command never recorded
	stats, err := store.Stats("never-run")

	// Then zero observations are reported, not an error
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Observations)
}

func TestStore_ParametersWithNoEntriesRoundTripAsEmpty(t *testing.T) {
	// Given a result with no parameters at all
	store := newTestStore(t)
	result := aggregate.BenchmarkResult{Command: "true", Mean: 1.0, Median: 1.0, Min: 1.0, Max: 1.0}

	// When recorded and read back
	require.NoError(t, store.Record(result))
	runs, err := store.RecentRuns("true", 1)

	// Then parameters decode to empty, not nil-panic
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Parameters)
	assert.Empty(t, runs[0].ParameterOrder)
}
