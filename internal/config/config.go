// Package config centralizes process configuration for the cleaning CLI.
// Values resolve flag over environment over built-in default, so a scheduled
// run can be driven entirely from the environment while ad hoc runs override
// per invocation.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Config holds every runtime setting for a cleaning run.
type Config struct {
	// In is the raw sales export to read.
	In string
	// Out is the destination for the cleaned CSV.
	Out string
	// Rejects, when set, is a side CSV receiving the rows dropped by
	// validation, one line per rejection with its row number, field, and
	// reason. Empty disables the file.
	Rejects string
	// Delimiter is the field separator spelling; see Comma.
	Delimiter string

	// LoadKind selects an optional storage backend ("sqlite", "postgres",
	// "mysql") to load the cleaned rows into. Empty disables loading.
	LoadKind string
	// DSN is the backend connection string; required when LoadKind is set.
	DSN string
	// Table is the destination table for loaded rows.
	Table string
	// BatchSize caps rows per bulk insert.
	BatchSize int

	// MetricsBackend selects the metrics sink: "none", "pushgateway", or
	// "datadog".
	MetricsBackend string
	// PushgatewayURL is the Prometheus Pushgateway base URL.
	PushgatewayURL string
	// StatsdAddr is the DogStatsD endpoint for the datadog backend.
	StatsdAddr string
	// Job labels metrics and log lines for this run.
	Job string
}

// Load builds a Config from the process flag set, environment, and
// arguments. It parses flag.CommandLine, so callers register any extra flags
// of their own before calling it.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// LoadFromArgs builds a Config from the given flag set, environment lookup,
// and argument list. Tests pass a private FlagSet and a fake getenv.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	envOrDefault := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	intEnvOrDefault := func(key string, def int) int {
		if v := getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}

	cfg := &Config{}
	fs.StringVar(&cfg.In, "in", envOrDefault("SALESCLEAN_IN", "data/raw/sales_data_raw.csv"), "input CSV path")
	fs.StringVar(&cfg.Out, "out", envOrDefault("SALESCLEAN_OUT", "data/processed/sales_data_clean.csv"), "output CSV path")
	fs.StringVar(&cfg.Rejects, "rejects", envOrDefault("SALESCLEAN_REJECTS", ""), "side CSV for rows dropped by validation; empty disables it")
	fs.StringVar(&cfg.Delimiter, "delimiter", envOrDefault("SALESCLEAN_DELIMITER", ","), `field delimiter ("," ";" "tab" ...)`)

	fs.StringVar(&cfg.LoadKind, "load", envOrDefault("SALESCLEAN_LOAD", ""), "storage backend to load cleaned rows into (sqlite|postgres|mysql); empty disables loading")
	fs.StringVar(&cfg.DSN, "dsn", envOrDefault("SALESCLEAN_DSN", ""), "storage connection string")
	fs.StringVar(&cfg.Table, "table", envOrDefault("SALESCLEAN_TABLE", "sales_clean"), "destination table name")
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefault("SALESCLEAN_BATCH_SIZE", 500), "rows per bulk insert")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOrDefault("METRICS_BACKEND", "none"), "metrics backend (none|pushgateway|datadog)")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOrDefault("PUSHGATEWAY_URL", "http://localhost:9091"), "Prometheus Pushgateway base URL")
	fs.StringVar(&cfg.StatsdAddr, "statsd-addr", envOrDefault("STATSD_ADDR", "127.0.0.1:8125"), "DogStatsD address for the datadog backend")
	fs.StringVar(&cfg.Job, "job", envOrDefault("SALESCLEAN_JOB", "salesclean"), "job name used in metrics and logs")

	_ = fs.Parse(args)
	return cfg
}

// Comma returns the configured delimiter as a rune. The spellings "tab" and
// a literal backslash-t select a tab; otherwise the first rune of the
// setting is used, defaulting to ','.
func (c *Config) Comma() rune {
	switch strings.ToLower(strings.TrimSpace(c.Delimiter)) {
	case "", ",":
		return ','
	case `\t`, "tab":
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
