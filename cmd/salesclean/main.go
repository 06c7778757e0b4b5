package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"salesclean/internal/config"
	"salesclean/internal/metrics"
	"salesclean/internal/metrics/datadog"
	"salesclean/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "salesclean/internal/storage/all"
)

// main is the entry point for the salesclean binary. It loads the run config,
// optionally initializes a metrics backend, and executes the cleaning run.
func main() {
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	cfg := config.Load()

	// Lint the configuration before touching any files.
	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid")
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit.
	if *validate {
		log.Printf("Configuration is valid")
		os.Exit(0)
	}

	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", cfg.PushgatewayURL, cfg.MetricsBackend, cfg.Job)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.StatsdAddr,
			Namespace:  "",
			GlobalTags: []string{"service:" + cfg.Job},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			log.Printf("metrics: statsd_addr=%v, backend=%v, job_name=%v", cfg.StatsdAddr, cfg.MetricsBackend, cfg.Job)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.MetricsBackend)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: in=%s out=%s load=%s table=%s", cfg.In, cfg.Out, cfg.LoadKind, cfg.Table)
	}

	if err := run(ctx, cfg, *verbose); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}
