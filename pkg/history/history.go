// Package history persists benchmark runs to a SQLite database so
// later invocations can compare against past measurements.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tavianator/hyperfine/pkg/aggregate"
)

// Store manages the SQLite-backed run-history database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if necessary) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history: failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS benchmark_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		parameters TEXT NOT NULL DEFAULT '[]',
		mean_seconds REAL NOT NULL,
		stddev_seconds REAL,
		median_seconds REAL NOT NULL,
		min_seconds REAL NOT NULL,
		max_seconds REAL NOT NULL,
		user_seconds REAL NOT NULL,
		system_seconds REAL NOT NULL,
		run_count INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_benchmark_runs_command ON benchmark_runs(command);
	`
	_, err := s.db.Exec(schema)
	return err
}

// parameterEntry preserves parameter insertion order across the
// map-to-JSON round trip, since aggregate.BenchmarkResult.Parameters
// is an unordered Go map paired with a separate ParameterOrder slice.
type parameterEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func encodeParameters(parameters map[string]string, order []string) (string, error) {
	entries := make([]parameterEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, parameterEntry{Key: key, Value: parameters[key]})
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeParameters(encoded string) (map[string]string, []string, error) {
	var entries []parameterEntry
	if err := json.Unmarshal([]byte(encoded), &entries); err != nil {
		return nil, nil, err
	}
	parameters := make(map[string]string, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		parameters[e.Key] = e.Value
		order = append(order, e.Key)
	}
	return parameters, order, nil
}

// Record stores one aggregated benchmark result.
func (s *Store) Record(result aggregate.BenchmarkResult) error {
	paramsJSON, err := encodeParameters(result.Parameters, result.ParameterOrder)
	if err != nil {
		return fmt.Errorf("history: failed to encode parameters: %w", err)
	}

	var stddev sql.NullFloat64
	if result.Stddev != nil {
		stddev = sql.NullFloat64{Float64: *result.Stddev, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO benchmark_runs
			(command, parameters, mean_seconds, stddev_seconds, median_seconds, min_seconds, max_seconds, user_seconds, system_seconds, run_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Command, paramsJSON, result.Mean, stddev, result.Median, result.Min, result.Max, result.User, result.System, len(result.ExitCodes))
	if err != nil {
		return fmt.Errorf("history: failed to record run: %w", err)
	}
	return nil
}

// Run is one historical record as read back from the database.
type Run struct {
	Command        string
	Parameters     map[string]string
	ParameterOrder []string
	Mean           float64
	Stddev         *float64
	Median         float64
	Min            float64
	Max            float64
	User           float64
	System         float64
	RunCount       int
	RecordedAt     time.Time
}

// RecentRuns returns up to limit of the most recent runs recorded for
// command, newest first.
func (s *Store) RecentRuns(command string, limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT command, parameters, mean_seconds, stddev_seconds, median_seconds, min_seconds, max_seconds, user_seconds, system_seconds, run_count, recorded_at
		FROM benchmark_runs
		WHERE command = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, command, limit)
	if err != nil {
		return nil, fmt.Errorf("history: failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run          Run
			paramsJSON   string
			stddev       sql.NullFloat64
			recordedUnix int64
		)
		if err := rows.Scan(&run.Command, &paramsJSON, &run.Mean, &stddev, &run.Median, &run.Min, &run.Max, &run.User, &run.System, &run.RunCount, &recordedUnix); err != nil {
			return nil, fmt.Errorf("history: failed to scan run: %w", err)
		}
		if stddev.Valid {
			v := stddev.Float64
			run.Stddev = &v
		}
		parameters, order, err := decodeParameters(paramsJSON)
		if err != nil {
			return nil, fmt.Errorf("history: failed to decode parameters: %w", err)
		}
		run.Parameters = parameters
		run.ParameterOrder = order
		run.RecordedAt = time.Unix(recordedUnix, 0).UTC()

		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CommandStats summarizes every run recorded for one command.
type CommandStats struct {
	Command      string
	Observations int
	BestMean     float64
	WorstMean    float64
	AverageMean  float64
}

// Stats aggregates all recorded runs for command.
func (s *Store) Stats(command string) (CommandStats, error) {
	stats := CommandStats{Command: command}

	row := s.db.QueryRow(`
		SELECT COUNT(*), MIN(mean_seconds), MAX(mean_seconds), AVG(mean_seconds)
		FROM benchmark_runs
		WHERE command = ?`, command)

	var (
		best, worst, avg sql.NullFloat64
	)
	if err := row.Scan(&stats.Observations, &best, &worst, &avg); err != nil {
		return CommandStats{}, fmt.Errorf("history: failed to compute stats: %w", err)
	}
	stats.BestMean = best.Float64
	stats.WorstMean = worst.Float64
	stats.AverageMean = avg.Float64

	return stats, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
