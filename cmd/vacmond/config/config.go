// Package config provides configuration parsing and management for the monitor.
//
// It handles both command-line flags and environment variables, with flags taking
// precedence over environment variables. The Config struct contains all runtime
// configuration for the monitor including:
//   - Chamber identification (chamber name)
//   - Pressure source settings (source kind, source-specific config map)
//   - Analysis tunables (base pressure window, spike thresholds, cycle thresholds)
//   - Timing configuration (interval, window, sample rate)
//   - Storage configuration (memory or Redis)
//   - Logging configuration (level, format)
//   - TLS configuration (cert, key, CA files)
//
// Supported configuration sources (in order of precedence):
//  1. Command-line flags
//  2. Environment variables
//  3. Default values
//
// Source-specific configuration is provided via SOURCE_* environment variables,
// for example SOURCE_URL, SOURCE_QUERY, SOURCE_PRESSURE_PATH.
//
// Example usage:
//
//	cfg := config.ParseFlags()
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/hipstereclipse/vacmon/pkg/storage"
	"github.com/hipstereclipse/vacmon/pkg/tls"
)

// Config holds all monitor configuration.
type Config struct {
	Listen        string
	LogFormat     string
	LogLevel      string
	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	TLS           tls.Config

	Chamber      string
	Source       string
	SourceConfig map[string]string
	Interval     time.Duration
	Window       time.Duration
	Step         time.Duration
	SampleRate   float64

	BaseWindowMinutes  float64
	SpikeFactor        float64
	SpikeMinDuration   int
	SpikeWindow        int
	CycleMinDrop       float64
	CycleMinDuration   int
	LeakMinDuration    int
	LeakNoiseThreshold float64
	LeakSlopeThreshold float64
}

// ParseFlags parses command-line flags and environment variables into a Config.
// Environment variables are used as fallbacks when flags are not provided.
// Each monitor instance watches a single chamber for security and simplicity.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8081"), "HTTP listen address")

	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Storage backend: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis server address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")
	flag.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvDuration("REDIS_TTL", 30*time.Minute), "Redis report TTL")

	flag.BoolVar(&cfg.TLS.Enabled, "tls-enabled", getEnvBool("TLS_ENABLED", false), "Enable TLS for HTTP server")
	flag.StringVar(&cfg.TLS.CertFile, "tls-cert-file", getEnv("TLS_CERT_FILE", ""), "TLS certificate file")
	flag.StringVar(&cfg.TLS.KeyFile, "tls-key-file", getEnv("TLS_KEY_FILE", ""), "TLS private key file")
	flag.StringVar(&cfg.TLS.CAFile, "tls-ca-file", getEnv("TLS_CA_FILE", ""), "TLS CA certificate file for client verification")

	flag.StringVar(&cfg.Chamber, "chamber", getEnv("CHAMBER", ""), "Chamber name (required)")
	flag.StringVar(&cfg.Source, "source", getEnv("SOURCE", ""), "Pressure source: prometheus, http, or file")
	flag.DurationVar(&cfg.Interval, "interval", getEnvDuration("INTERVAL", 30*time.Second), "Analysis interval")
	flag.DurationVar(&cfg.Window, "window", getEnvDuration("WINDOW", 1*time.Hour), "Historical window to analyze")
	flag.DurationVar(&cfg.Step, "step", getEnvDuration("STEP", 1*time.Second), "Sample step for range queries")
	flag.Float64Var(&cfg.SampleRate, "sample-rate", getEnvFloat("SAMPLE_RATE", 1.0), "Nominal sample rate in Hz")

	flag.Float64Var(&cfg.BaseWindowMinutes, "base-window-minutes", getEnvFloat("BASE_WINDOW_MINUTES", 10), "Base pressure rolling window in minutes")
	flag.Float64Var(&cfg.SpikeFactor, "spike-factor", getEnvFloat("SPIKE_FACTOR", 3), "Spike threshold in standard deviations")
	flag.IntVar(&cfg.SpikeMinDuration, "spike-min-duration", getEnvInt("SPIKE_MIN_DURATION", 1), "Minimum spike duration in samples")
	flag.IntVar(&cfg.SpikeWindow, "spike-window", getEnvInt("SPIKE_WINDOW", 100), "Rolling window for spike baselines in samples")
	flag.Float64Var(&cfg.CycleMinDrop, "cycle-min-drop", getEnvFloat("CYCLE_MIN_DROP", 2), "Minimum pressure drop in decades for a pump-down cycle")
	flag.IntVar(&cfg.CycleMinDuration, "cycle-min-duration", getEnvInt("CYCLE_MIN_DURATION", 10), "Minimum pump-down cycle duration in samples")
	flag.IntVar(&cfg.LeakMinDuration, "leak-min-duration", getEnvInt("LEAK_MIN_DURATION", 60), "Minimum leak segment duration in samples")
	flag.Float64Var(&cfg.LeakNoiseThreshold, "leak-noise-threshold", getEnvFloat("LEAK_NOISE_THRESHOLD", 1e-7), "Local noise ceiling for leak segments")
	flag.Float64Var(&cfg.LeakSlopeThreshold, "leak-slope-threshold", getEnvFloat("LEAK_SLOPE_THRESHOLD", 0), "Minimum slope for leak segments")

	flag.Parse()

	cfg.SourceConfig = parseSourceConfig()

	if cfg.Chamber == "" {
		fmt.Fprintln(os.Stderr, "Error: --chamber is required")
		os.Exit(1)
	}
	if cfg.Source == "" {
		fmt.Fprintln(os.Stderr, "Error: --source is required")
		os.Exit(1)
	}

	return cfg
}

var chamberNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]{0,251}[a-zA-Z0-9])?$`)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !chamberNameRegex.MatchString(c.Chamber) {
		return fmt.Errorf("invalid chamber name %q (must be alphanumeric with dash/underscore, 1-253 chars)", c.Chamber)
	}

	if c.Source != "prometheus" && c.Source != "http" && c.Source != "file" {
		return fmt.Errorf("invalid source %q (must be prometheus, http, or file)", c.Source)
	}

	if c.Storage != "memory" && c.Storage != "redis" {
		return fmt.Errorf("invalid storage %q (must be memory or redis)", c.Storage)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %v", c.Interval)
	}

	if c.Window <= 0 {
		return fmt.Errorf("window must be > 0, got %v", c.Window)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0, got %v", c.SampleRate)
	}

	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("tls config: %w", err)
	}

	return nil
}

// AnalysisParams converts the analysis tunables into storage.AnalysisParams.
func (c *Config) AnalysisParams() storage.AnalysisParams {
	return storage.AnalysisParams{
		BaseWindowMinutes:      c.BaseWindowMinutes,
		SampleRateHz:           c.SampleRate,
		SpikeThresholdFactor:   c.SpikeFactor,
		SpikeMinDuration:       c.SpikeMinDuration,
		SpikeWindow:            c.SpikeWindow,
		CycleMinDrop:           c.CycleMinDrop,
		CycleMinDuration:       c.CycleMinDuration,
		LeakSegmentMinDuration: c.LeakMinDuration,
		LeakNoiseThreshold:     c.LeakNoiseThreshold,
		LeakSlopeThreshold:     c.LeakSlopeThreshold,
	}
}

// parseSourceConfig parses SOURCE_* environment variables into a generic configuration map.
// Source-specific configuration is provided via environment variables with the SOURCE_ prefix.
// For example: SOURCE_URL, SOURCE_QUERY, SOURCE_PRESSURE_PATH
// Environment variable names are converted to camelCase for the map keys (SOURCE_PRESSURE_PATH → pressurePath).
func parseSourceConfig() map[string]string {
	config := make(map[string]string)

	for _, env := range os.Environ() {
		if len(env) > 7 && env[:7] == "SOURCE_" {
			parts := splitEnv(env)
			if len(parts) == 2 {
				key := toLowerCamelCase(parts[0][7:])
				config[key] = parts[1]
			}
		}
	}

	return config
}

func splitEnv(env string) []string {
	for i := 0; i < len(env); i++ {
		if env[i] == '=' {
			return []string{env[:i], env[i+1:]}
		}
	}
	return []string{env}
}

func toLowerCamelCase(s string) string {
	if s == "" {
		return s
	}
	parts := []rune(s)
	result := make([]rune, 0, len(parts))
	nextUpper := false
	for i, r := range parts {
		if r == '_' {
			nextUpper = true
			continue
		}
		if i == 0 {
			result = append(result, toLower(r))
		} else if nextUpper {
			result = append(result, r)
			nextUpper = false
		} else {
			result = append(result, toLower(r))
		}
	}
	return string(result)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 32
	}
	return r
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
