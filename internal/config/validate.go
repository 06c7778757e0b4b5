package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Severity classifies a configuration issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single configuration problem found by Validate. Errors should
// stop the run; warnings are advisory.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownLoadKinds mirrors the storage backends compiled into the binary.
var knownLoadKinds = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"mysql":    true,
}

var knownMetricsBackends = map[string]bool{
	"":            true,
	"none":        true,
	"pushgateway": true,
	"datadog":     true,
}

// Validate lints cfg before a run. It returns all issues found, not just the
// first, so a misconfigured invocation can be fixed in one pass.
func Validate(cfg *Config) []Issue {
	var issues []Issue
	errf := func(path, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(path, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.In) == "" {
		errf("in", "input path must not be empty")
	}
	if strings.TrimSpace(cfg.Out) == "" {
		errf("out", "output path must not be empty")
	}
	if cfg.In != "" && cfg.In == cfg.Out {
		errf("out", "input and output refer to the same file")
	}
	if cfg.Rejects != "" {
		if cfg.Rejects == cfg.Out {
			errf("rejects", "rejects file and output refer to the same file")
		}
		if cfg.Rejects == cfg.In {
			errf("rejects", "rejects file and input refer to the same file")
		}
	}

	switch d := strings.ToLower(strings.TrimSpace(cfg.Delimiter)); d {
	case "", ",", "tab", `\t`:
	default:
		if utf8.RuneCountInString(d) > 1 {
			errf("delimiter", "%q is not a single character (use e.g. \",\" \";\" or \"tab\")", cfg.Delimiter)
		}
	}

	if cfg.LoadKind != "" {
		if !knownLoadKinds[cfg.LoadKind] {
			warnf("load", "unknown storage kind %q; ensure a matching backend is registered", cfg.LoadKind)
		}
		if strings.TrimSpace(cfg.DSN) == "" {
			errf("dsn", "a connection string is required when -load is set")
		}
		if cfg.BatchSize <= 0 {
			errf("batch_size", "must be positive, got %d", cfg.BatchSize)
		}
	} else if cfg.BatchSize <= 0 {
		warnf("batch_size", "non-positive value %d; ignored because loading is disabled", cfg.BatchSize)
	}

	if !knownMetricsBackends[cfg.MetricsBackend] {
		warnf("metrics-backend", "unknown backend %q; metrics will be disabled", cfg.MetricsBackend)
	}
	if cfg.MetricsBackend == "pushgateway" && strings.TrimSpace(cfg.PushgatewayURL) == "" {
		errf("pushgateway-url", "required for the pushgateway metrics backend")
	}
	if cfg.MetricsBackend == "datadog" && strings.TrimSpace(cfg.StatsdAddr) == "" {
		errf("statsd-addr", "required for the datadog metrics backend")
	}

	if strings.TrimSpace(cfg.Job) == "" {
		errf("job", "job name must not be empty")
	}

	return issues
}
