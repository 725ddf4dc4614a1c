// Command hyperfine benchmarks the commands given on the command line,
// running each one repeatedly, reporting mean/stddev/min/max timings,
// and ranking commands by relative speed.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/analyze"
	"github.com/tavianator/hyperfine/pkg/collector"
	"github.com/tavianator/hyperfine/pkg/command"
	"github.com/tavianator/hyperfine/pkg/config"
	"github.com/tavianator/hyperfine/pkg/executor"
	"github.com/tavianator/hyperfine/pkg/export"
	"github.com/tavianator/hyperfine/pkg/history"
	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/ui"
	"github.com/tavianator/hyperfine/pkg/units"
)

var (
	flagConfig    config.Config
	configFile    string
	debugConfig   bool
	collectorSock string
)

var rootCmd = &cobra.Command{
	Use:   "hyperfine [OPTIONS] <command>...",
	Short: "A command-line benchmarking tool",
	Long: `hyperfine runs each given command many times and reports wall-clock,
user-CPU, and system-CPU timing statistics, then compares commands by
relative speed.

Each positional argument is one command line to benchmark. Commands are
run through a shell by default; pass --shell none to spawn them
directly.

EXAMPLES:
  hyperfine "sleep 0.1"
  hyperfine --warmup 3 "sleep 0.1" "sleep 0.2"
  hyperfine --export-markdown results.md --unit ms "grep foo file.txt"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBenchmark,
}

func init() {
	rootCmd.Flags().IntVar(&flagConfig.Warmup, "warmup", 0, "number of warmup runs before the measured runs")
	rootCmd.Flags().IntVar(&flagConfig.Runs, "runs", 0, "exact number of runs to perform (overrides min/max-runs)")
	rootCmd.Flags().IntVar(&flagConfig.MinRuns, "min-runs", 0, "minimum number of runs")
	rootCmd.Flags().IntVar(&flagConfig.MaxRuns, "max-runs", 0, "maximum number of runs (0 means no limit)")
	rootCmd.Flags().StringVar(&flagConfig.Shell, "shell", "", "shell to use for execution ('none' to spawn directly)")
	rootCmd.Flags().BoolVarP(&flagConfig.IgnoreFailure, "ignore-failure", "i", false, "ignore non-zero exit codes of the benchmarked command")
	rootCmd.Flags().StringVar(&flagConfig.OutputStyle, "style", "", "progress/output style: auto, basic, full, nocolor, disabled")
	rootCmd.Flags().StringVar(&flagConfig.Unit, "unit", "", "time unit for results: s, ms, or empty for auto")
	rootCmd.Flags().StringVar(&flagConfig.ExportMarkdownPath, "export-markdown", "", "write a markdown results table to this path")
	rootCmd.Flags().StringVar(&flagConfig.HistoryDBPath, "history-db", "", "persist results to a SQLite history database at this path")
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a TOML configuration file")
	rootCmd.Flags().BoolVar(&debugConfig, "debug-config", false, "print configuration resolution and exit")
	rootCmd.Flags().StringVar(&collectorSock, "collector-socket", "", "push results to a collector daemon on this Unix socket")
}

// explicitConfigFlags reports, by config key, which CLI flags the user
// actually set, so an unset flag (zero value) never shadows a
// config-file or environment value.
func explicitConfigFlags(cmd *cobra.Command) map[string]bool {
	names := map[string]string{
		"warmup": "warmup", "runs": "runs", "min-runs": "min_runs", "max-runs": "max_runs",
		"shell": "shell", "ignore-failure": "ignore_failure", "style": "style",
		"unit": "unit", "export-markdown": "export_markdown", "history-db": "history_db",
	}
	explicit := make(map[string]bool)
	for flagName, configKey := range names {
		if cmd.Flags().Changed(flagName) {
			explicit[configKey] = true
		}
	}
	return explicit
}

func loadConfiguration(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(cwd)
		}
	}

	cfg, debugInfo, err := config.LoadWithPrecedenceAndExplicitFlags(path, &flagConfig, explicitConfigFlags(cmd), debugConfig)
	if err != nil {
		return nil, err
	}

	if debugConfig && debugInfo != nil {
		debugInfo.PrintDebugInfo()
		fmt.Println()
	}

	return cfg, nil
}

// parseCommandLine splits a user-supplied command line into an
// executable and its arguments. This is a minimal whitespace splitter
// with no quote handling; commands needing quoting or expansion should
// run through a shell instead of --shell none.
func parseCommandLine(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func resolveUnit(value string) (*units.Unit, error) {
	switch value {
	case "":
		return nil, nil
	case "s":
		u := units.UnitSecond
		return &u, nil
	case "ms":
		u := units.UnitMilliSecond
		return &u, nil
	default:
		return nil, fmt.Errorf("unknown unit %q (expected s or ms)", value)
	}
}

func buildExecutor(cfg *config.Config, opts executor.Options) executor.Executor {
	if cfg.Shell == "none" {
		return executor.NewRawExecutor(opts)
	}
	return executor.NewShellExecutor(executor.NewShell(cfg.Shell), opts)
}

// effectiveRunCount resolves the number of measured runs to perform: an
// explicit --runs count wins outright; otherwise min-runs acts as a
// floor (clamped to max-runs when both are set), defaulting to 10 when
// neither is given.
func effectiveRunCount(cfg *config.Config) int {
	if cfg.Runs > 0 {
		return cfg.Runs
	}
	if cfg.MinRuns > 0 {
		if cfg.MaxRuns > 0 && cfg.MinRuns > cfg.MaxRuns {
			return cfg.MaxRuns
		}
		return cfg.MinRuns
	}
	return 10
}

// runCommand executes one benchmarked command's warmup and measured
// runs, reporting progress via reporter, and returns its aggregated
// result.
func runCommand(exec executor.Executor, cmdLine string, cfg *config.Config, reporter *ui.Reporter, index, total int) (aggregate.BenchmarkResult, error) {
	cmd := commandFor(cmdLine, cfg.Shell)

	reporter.BenchmarkStart(index, total, cmdLine)

	for i := 1; i <= cfg.Warmup; i++ {
		reporter.WarmupRun(i, cfg.Warmup)
		if _, _, err := exec.RunCommandAndMeasure(cmd, nil); err != nil {
			return aggregate.BenchmarkResult{}, err
		}
	}

	runs := effectiveRunCount(cfg)
	samples := make([]sample.TimingResult, 0, runs)
	statuses := make([]timer.Status, 0, runs)

	for i := 1; i <= runs; i++ {
		result, status, err := exec.RunCommandAndMeasure(cmd, nil)
		if err != nil {
			return aggregate.BenchmarkResult{}, err
		}
		samples = append(samples, result)
		statuses = append(statuses, status)
		reporter.Run(i, runs, result.TimeReal)
	}

	return aggregate.Aggregate(cmdLine, nil, nil, samples, statuses, true)
}

// commandFor builds the Command used to run cmdLine. Raw mode needs a
// real argv (GetCommand() is meaningless for a line-only Command), so
// it is parsed via parseCommandLine; shell mode only ever needs the
// printable line itself.
func commandFor(cmdLine, shell string) command.Command {
	if shell == "none" {
		executable, args := parseCommandLine(cmdLine)
		return command.New(executable, args, "", nil)
	}
	return command.NewFromLine(cmdLine)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	unit, err := resolveUnit(cfg.Unit)
	if err != nil {
		return err
	}

	failureAction := executor.RaiseError
	if cfg.IgnoreFailure {
		failureAction = executor.Ignore
	}

	style := executor.OutputStyleBasic
	quiet := false
	if cfg.OutputStyle == "disabled" {
		style = executor.OutputStyleDisabled
		quiet = true
	}

	opts := executor.Options{
		CommandFailureAction: failureAction,
		CommandOutputPolicy:  executor.CommandOutputPolicy{Kind: executor.OutputNull},
		OutputStyle:          style,
		ProgressFactory:      executor.NewTextProgressFactory(os.Stderr),
	}
	if style == executor.OutputStyleDisabled {
		opts.ProgressFactory = executor.NewNoopProgressFactory()
	}
	if cfg.OutputStyle == "full" {
		opts.CommandOutputPolicy = executor.CommandOutputPolicy{Kind: executor.OutputInherit}
	}

	exec := buildExecutor(cfg, opts)
	if err := exec.Calibrate(); err != nil {
		return err
	}

	reporter := ui.NewReporter(os.Stderr)
	reporter.SetQuiet(quiet)

	results := make([]aggregate.BenchmarkResult, 0, len(args))
	for i, cmdLine := range args {
		result, err := runCommand(exec, cmdLine, cfg, reporter, i+1, len(args))
		if err != nil {
			return fmt.Errorf("hyperfine: %q: %w", cmdLine, err)
		}
		results = append(results, result)
	}

	if annotated, analyzeErr := analyze.Compute(results); analyzeErr == nil {
		for _, entry := range annotated {
			reporter.Summary(entry)
		}
		reporter.RelativeSummary(annotated)
	}

	if cfg.ExportMarkdownPath != "" {
		data, err := export.NewMarkdownExporter().Serialize(results, unit)
		if err != nil {
			return fmt.Errorf("hyperfine: export failed: %w", err)
		}
		if err := os.WriteFile(cfg.ExportMarkdownPath, data, 0644); err != nil {
			return fmt.Errorf("hyperfine: failed to write %q: %w", cfg.ExportMarkdownPath, err)
		}
	}

	if cfg.HistoryDBPath != "" {
		store, err := history.NewStore(cfg.HistoryDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		for _, result := range results {
			if err := store.Record(result); err != nil {
				return err
			}
		}
	}

	if collectorSock != "" {
		client := collector.NewClient(collectorSock)
		for _, result := range results {
			client.SendAsync(collector.NewPayload(result))
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
