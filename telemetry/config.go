// SPDX-License-Identifier: MIT

package telemetry

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=trace debug info warn error"`

	// Format specifies the log format (console, json).
	Format string `yaml:"format" json:"format" validate:"omitempty,oneof=console json"`

	// Output specifies where logs are written (stdout, stderr, file path).
	Output string `yaml:"output" json:"output"`

	// EnableCaller adds file:line caller information to logs.
	EnableCaller bool `yaml:"enable_caller" json:"enable_caller"`

	// TimeFormat selects the timestamp encoding (rfc3339, unix, unixms).
	TimeFormat string `yaml:"time_format" json:"time_format" validate:"omitempty,oneof=rfc3339 unix unixms"`
}

// MetricsConfig configures solver metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected at all.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace" json:"namespace"`

	// Textfile, when set, is where the CLI writes the metrics in the
	// Prometheus text format after a run.
	Textfile string `yaml:"textfile" json:"textfile"`

	// Buckets are the solve-duration histogram buckets in seconds.
	Buckets []float64 `yaml:"buckets" json:"buckets" validate:"omitempty,dive,gt=0"`
}

// DefaultLoggingConfig logs info and above to stderr in console format.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "rfc3339",
	}
}

// DefaultMetricsConfig collects metrics under the "bellman" namespace.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "bellman",
	}
}
