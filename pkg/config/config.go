package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the hyperfine CLI.
type Config struct {
	Warmup             int    `mapstructure:"warmup"`
	Runs               int    `mapstructure:"runs"`
	MinRuns            int    `mapstructure:"min_runs"`
	MaxRuns            int    `mapstructure:"max_runs"`
	Shell              string `mapstructure:"shell"`
	IgnoreFailure      bool   `mapstructure:"ignore_failure"`
	OutputStyle        string `mapstructure:"style"`
	Unit               string `mapstructure:"unit"`
	ExportMarkdownPath string `mapstructure:"export_markdown"`
	HistoryDBPath      string `mapstructure:"history_db"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value '%v': %s", e.Field, e.Value, e.Message)
}

// ConfigSource represents where a configuration value came from.
type ConfigSource int

const (
	SourceDefault ConfigSource = iota
	SourceConfigFile
	SourceEnvironment
	SourceCLIFlag
)

func (s ConfigSource) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceConfigFile:
		return "config file"
	case SourceEnvironment:
		return "environment variable"
	case SourceCLIFlag:
		return "CLI flag"
	default:
		return "unknown"
	}
}

// ConfigDebugInfo holds debugging information about configuration resolution.
type ConfigDebugInfo struct {
	Sources map[string]ConfigSource
	Values  map[string]interface{}
}

var envMappings = map[string]string{
	"HYPERFINE_WARMUP":          "warmup",
	"HYPERFINE_RUNS":            "runs",
	"HYPERFINE_MIN_RUNS":        "min_runs",
	"HYPERFINE_MAX_RUNS":        "max_runs",
	"HYPERFINE_SHELL":           "shell",
	"HYPERFINE_IGNORE_FAILURE":  "ignore_failure",
	"HYPERFINE_STYLE":           "style",
	"HYPERFINE_UNIT":            "unit",
	"HYPERFINE_EXPORT_MARKDOWN": "export_markdown",
	"HYPERFINE_HISTORY_DB":      "history_db",
}

var configKeys = []string{
	"warmup", "runs", "min_runs", "max_runs", "shell",
	"ignore_failure", "style", "unit", "export_markdown", "history_db",
}

// LoadFromFile loads configuration from a TOML file.
func LoadFromFile(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configFile)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithEnvironment loads configuration with environment variable support.
func LoadWithEnvironment() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HYPERFINE")
	v.AutomaticEnv()

	for envVar, configKey := range envMappings {
		v.BindEnv(configKey, envVar)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithPrecedence loads configuration with full precedence support:
// defaults, then config file, then environment, then CLI flag overrides.
func LoadWithPrecedence(configFile string, flagConfig *Config, debug bool) (*Config, *ConfigDebugInfo, error) {
	var debugInfo *ConfigDebugInfo
	if debug {
		debugInfo = &ConfigDebugInfo{Sources: make(map[string]ConfigSource), Values: make(map[string]interface{})}
	}

	v := viper.New()
	setDefaults(v)
	if debug {
		recordDefaults(debugInfo)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, debugInfo, fmt.Errorf("failed to read config file: %w", err)
		}
		if debug {
			recordConfigFile(debugInfo, v)
		}
	}

	v.SetEnvPrefix("HYPERFINE")
	v.AutomaticEnv()
	for envVar, configKey := range envMappings {
		v.BindEnv(configKey, envVar)
	}
	if debug {
		recordEnvironment(debugInfo)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, debugInfo, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if flagConfig != nil {
		config = *config.MergeWithFlags(flagConfig)
		if debug {
			recordFlags(debugInfo, flagConfig)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, debugInfo, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, debugInfo, nil
}

// LoadWithPrecedenceAndExplicitFlags is LoadWithPrecedence with explicit
// tracking of which CLI flags the caller actually set, so zero-valued
// flags don't shadow a config-file or environment value.
func LoadWithPrecedenceAndExplicitFlags(configFile string, flagConfig *Config, explicitFields map[string]bool, debug bool) (*Config, *ConfigDebugInfo, error) {
	var debugInfo *ConfigDebugInfo
	if debug {
		debugInfo = &ConfigDebugInfo{Sources: make(map[string]ConfigSource), Values: make(map[string]interface{})}
	}

	v := viper.New()
	setDefaults(v)
	if debug {
		recordDefaults(debugInfo)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, debugInfo, fmt.Errorf("failed to read config file: %w", err)
		}
		if debug {
			recordConfigFile(debugInfo, v)
		}
	}

	v.SetEnvPrefix("HYPERFINE")
	v.AutomaticEnv()
	for envVar, configKey := range envMappings {
		v.BindEnv(configKey, envVar)
	}
	if debug {
		recordEnvironment(debugInfo)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, debugInfo, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if flagConfig != nil && explicitFields != nil {
		config = *config.MergeWithExplicitFlags(flagConfig, explicitFields)
		if debug {
			recordExplicitFlags(debugInfo, flagConfig, explicitFields)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, debugInfo, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, debugInfo, nil
}

// LoadWithDefaults returns a configuration with default values only.
func LoadWithDefaults() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	v.Unmarshal(&config)
	return &config
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "sh"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("warmup", 0)
	v.SetDefault("runs", 0)
	v.SetDefault("min_runs", 10)
	v.SetDefault("max_runs", 0)
	v.SetDefault("shell", defaultShell())
	v.SetDefault("ignore_failure", false)
	v.SetDefault("style", "auto")
	v.SetDefault("unit", "")
	v.SetDefault("export_markdown", "")
	v.SetDefault("history_db", "")
}

// MergeWithFlags merges the base configuration with flag overrides,
// treating any non-zero-valued field on flags as explicitly set.
func (c *Config) MergeWithFlags(flags *Config) *Config {
	result := *c

	if flags.Warmup != 0 {
		result.Warmup = flags.Warmup
	}
	if flags.Runs != 0 {
		result.Runs = flags.Runs
	}
	if flags.MinRuns != 0 {
		result.MinRuns = flags.MinRuns
	}
	if flags.MaxRuns != 0 {
		result.MaxRuns = flags.MaxRuns
	}
	if flags.Shell != "" {
		result.Shell = flags.Shell
	}
	if flags.OutputStyle != "" {
		result.OutputStyle = flags.OutputStyle
	}
	if flags.Unit != "" {
		result.Unit = flags.Unit
	}
	if flags.ExportMarkdownPath != "" {
		result.ExportMarkdownPath = flags.ExportMarkdownPath
	}
	if flags.HistoryDBPath != "" {
		result.HistoryDBPath = flags.HistoryDBPath
	}
	// IgnoreFailure is boolean; the caller must track explicitness itself.

	return &result
}

// MergeWithExplicitFlags merges configuration with explicitly set flag
// values, correctly handling zero/false values.
func (c *Config) MergeWithExplicitFlags(flags *Config, explicitFields map[string]bool) *Config {
	result := *c

	if explicitFields["warmup"] {
		result.Warmup = flags.Warmup
	}
	if explicitFields["runs"] {
		result.Runs = flags.Runs
	}
	if explicitFields["min_runs"] {
		result.MinRuns = flags.MinRuns
	}
	if explicitFields["max_runs"] {
		result.MaxRuns = flags.MaxRuns
	}
	if explicitFields["shell"] {
		result.Shell = flags.Shell
	}
	if explicitFields["ignore_failure"] {
		result.IgnoreFailure = flags.IgnoreFailure
	}
	if explicitFields["style"] {
		result.OutputStyle = flags.OutputStyle
	}
	if explicitFields["unit"] {
		result.Unit = flags.Unit
	}
	if explicitFields["export_markdown"] {
		result.ExportMarkdownPath = flags.ExportMarkdownPath
	}
	if explicitFields["history_db"] {
		result.HistoryDBPath = flags.HistoryDBPath
	}

	return &result
}

// FindConfigFile searches dir for a hyperfine config file.
func FindConfigFile(dir string) string {
	configNames := []string{".hyperfine.toml", "hyperfine.toml", ".hyperfine.yaml", "hyperfine.yaml"}

	for _, name := range configNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// Validate validates the configuration and returns detailed error messages.
func (c *Config) Validate() error {
	var errs []ValidationError

	if c.Warmup < 0 {
		errs = append(errs, ValidationError{Field: "warmup", Value: c.Warmup, Message: "must be non-negative"})
	}

	if c.Runs < 0 {
		errs = append(errs, ValidationError{Field: "runs", Value: c.Runs, Message: "must be non-negative (0 means auto)"})
	}

	if c.MinRuns < 0 {
		errs = append(errs, ValidationError{Field: "min_runs", Value: c.MinRuns, Message: "must be non-negative"})
	}
	if c.MaxRuns < 0 {
		errs = append(errs, ValidationError{Field: "max_runs", Value: c.MaxRuns, Message: "must be non-negative (0 means no limit)"})
	}
	if c.MaxRuns > 0 && c.MinRuns > c.MaxRuns {
		errs = append(errs, ValidationError{Field: "max_runs", Value: c.MaxRuns, Message: "must be greater than or equal to min_runs"})
	}
	if c.Runs > 0 && c.MaxRuns > 0 && c.Runs > c.MaxRuns {
		errs = append(errs, ValidationError{Field: "runs", Value: c.Runs, Message: "must not exceed max_runs"})
	}
	if c.Runs > 0 && c.Runs < c.MinRuns && c.MinRuns > 10 {
		errs = append(errs, ValidationError{Field: "runs", Value: c.Runs, Message: "must be at least min_runs when both are set"})
	}

	if c.Shell == "" {
		errs = append(errs, ValidationError{Field: "shell", Value: c.Shell, Message: "must not be empty"})
	}

	switch c.OutputStyle {
	case "", "auto", "basic", "full", "nocolor", "disabled":
	default:
		errs = append(errs, ValidationError{Field: "style", Value: c.OutputStyle, Message: "must be one of auto, basic, full, nocolor, disabled"})
	}

	switch c.Unit {
	case "", "s", "ms":
	default:
		errs = append(errs, ValidationError{Field: "unit", Value: c.Unit, Message: "must be one of s, ms, or empty for auto"})
	}

	if len(errs) > 0 {
		var messages []string
		for _, e := range errs {
			messages = append(messages, e.Error())
		}
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(messages, "\n  - "))
	}

	return nil
}

func recordDefaults(debug *ConfigDebugInfo) {
	defaults := LoadWithDefaults()
	for _, key := range configKeys {
		debug.Sources[key] = SourceDefault
		debug.Values[key] = fieldByKey(defaults, key)
	}
}

func recordConfigFile(debug *ConfigDebugInfo, v *viper.Viper) {
	for _, key := range configKeys {
		if v.InConfig(key) {
			debug.Sources[key] = SourceConfigFile
			debug.Values[key] = v.Get(key)
		}
	}
}

func recordEnvironment(debug *ConfigDebugInfo) {
	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			debug.Sources[configKey] = SourceEnvironment
			debug.Values[configKey] = value
		}
	}
}

func recordFlags(debug *ConfigDebugInfo, flags *Config) {
	zero := Config{}
	for _, key := range configKeys {
		v := fieldByKey(flags, key)
		if v != fieldByKey(&zero, key) {
			debug.Sources[key] = SourceCLIFlag
			debug.Values[key] = v
		}
	}
}

func recordExplicitFlags(debug *ConfigDebugInfo, flags *Config, explicitFields map[string]bool) {
	for _, key := range configKeys {
		if explicitFields[key] {
			debug.Sources[key] = SourceCLIFlag
			debug.Values[key] = fieldByKey(flags, key)
		}
	}
}

func fieldByKey(c *Config, key string) interface{} {
	switch key {
	case "warmup":
		return c.Warmup
	case "runs":
		return c.Runs
	case "min_runs":
		return c.MinRuns
	case "max_runs":
		return c.MaxRuns
	case "shell":
		return c.Shell
	case "ignore_failure":
		return c.IgnoreFailure
	case "style":
		return c.OutputStyle
	case "unit":
		return c.Unit
	case "export_markdown":
		return c.ExportMarkdownPath
	case "history_db":
		return c.HistoryDBPath
	default:
		return nil
	}
}

// PrintDebugInfo prints configuration debug information.
func (debug *ConfigDebugInfo) PrintDebugInfo() {
	fmt.Println("Configuration Resolution Debug Info:")
	fmt.Println("===================================")

	for _, key := range configKeys {
		source := debug.Sources[key]
		value := debug.Values[key]
		fmt.Printf("%-20s: %-15v (from %s)\n", key, value, source)
	}
}
