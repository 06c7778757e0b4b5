// Package main wires the cleaning pipeline end-to-end. This file keeps the
// CLI layer thin: it depends only on storage-agnostic interfaces and never
// imports database drivers or backend-specific packages directly.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salesclean/internal/cleaner"
	"salesclean/internal/config"
	"salesclean/internal/datasource/file"
	"salesclean/internal/datasource/httpds"
	"salesclean/internal/metrics"
	csvparser "salesclean/internal/parser/csv"
	"salesclean/internal/records"
	"salesclean/internal/rejectlog"
	"salesclean/internal/storage"
	"salesclean/internal/writer"
)

// rejectShowLimit caps how many individual rejection reasons are logged.
const rejectShowLimit = 5

// counters holds per-run statistics for the summary log.
type counters struct {
	read         int64 // data rows the parser yielded
	parseSkipped int64 // malformed lines the parser skipped
	repaired     int64 // cells filled with a column median
	unparsed     int64 // numeric cells that failed coercion and became absent
	rejected     int64 // rows dropped by validation
	dupGroups    int64 // groups of identical rows (beyond singletons)
	dupExtra     int64 // rows beyond the first in each duplicate group
	written      int64 // rows written to the output CSV
	loaded       int64 // rows inserted into storage
	batches      int64 // storage batches flushed
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
)

// run executes a full read → normalize → repair → filter → derive → write
// pipeline, with an optional batched load into the configured storage backend.
//
// Bad rows are dropped before the output (fail-soft semantics); their reasons
// are aggregated and summarized at the end, and written to a side CSV when
// -rejects is set. Structural problems (unreadable
// input, unresolvable schema, a numeric column with nothing to impute from)
// abort the run with an error.
//
// Stats reported:
//
//   - read:          data rows the parser yielded
//   - parse_skipped: malformed lines the parser dropped
//   - repaired:      absent numeric cells filled with the column median
//   - rejected:      rows dropped by validation
//   - written:       rows in the output CSV
//   - loaded:        rows inserted into storage (when -load is set)
func run(ctx context.Context, cfg *config.Config, verbose bool) error {
	var stats counters
	rejAgg := newErrAgg(rejectShowLimit)

	st := time.Now()
	rc, err := openSourceFn(ctx, cfg.In)
	metrics.RecordStage(cfg.Job, "open", err, time.Since(st))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	p := csvparser.NewParser(csvparser.Options{Comma: cfg.Comma(), TrimSpace: true})
	st = time.Now()
	headers, raw, skipped, err := p.Parse(rc)
	metrics.RecordStage(cfg.Job, "parse", err, time.Since(st))
	if err != nil {
		return fmt.Errorf("parse %s: %w", cfg.In, err)
	}
	stats.read = int64(len(raw))
	stats.parseSkipped = int64(skipped)
	metrics.RecordRows(cfg.Job, "read", stats.read)
	metrics.RecordRows(cfg.Job, "parse_skipped", stats.parseSkipped)
	if verbose {
		log.Printf("parsed %d rows (%d skipped) from %s", len(raw), skipped, cfg.In)
	}

	st = time.Now()
	norm, err := cleaner.NormalizeColumns(headers, raw)
	metrics.RecordStage(cfg.Job, "normalize", err, time.Since(st))
	if err != nil {
		return fmt.Errorf("normalize columns: %w", err)
	}
	if verbose {
		for _, canon := range cleaner.Columns {
			log.Printf("header %q -> %s", norm.Mapping[canon], canon)
		}
		if len(norm.Dropped) > 0 {
			log.Printf("dropped headers: %s", strings.Join(norm.Dropped, ", "))
		}
	}

	st = time.Now()
	repaired, repairStats, err := cleaner.RepairMissing(norm.Records)
	metrics.RecordStage(cfg.Job, "repair", err, time.Since(st))
	if err != nil {
		return fmt.Errorf("repair missing values: %w", err)
	}
	for col, n := range repairStats.Filled {
		stats.repaired += int64(n)
		if verbose {
			log.Printf("filled %d missing %s values with median %s",
				n, col, strconv.FormatFloat(repairStats.Medians[col], 'f', -1, 64))
		}
	}
	for _, n := range repairStats.Unparsed {
		stats.unparsed += int64(n)
	}
	metrics.RecordRows(cfg.Job, "repaired", stats.repaired)

	st = time.Now()
	kept, rejections := cleaner.FilterInvalid(repaired)
	metrics.RecordStage(cfg.Job, "filter", nil, time.Since(st))
	stats.rejected = int64(len(rejections))
	metrics.RecordRows(cfg.Job, "rejected", stats.rejected)
	for _, rej := range rejections {
		rejAgg.add(fmt.Sprintf("record %d: %s", rej.Row+1, rej.Reason))
	}
	if cfg.Rejects != "" {
		if err := writeRejects(cfg.Rejects, repaired, rejections); err != nil {
			return err
		}
		if verbose {
			log.Printf("wrote %d rejected rows to %s", len(rejections), cfg.Rejects)
		}
	}

	dupes := cleaner.CountDuplicates(kept)
	stats.dupGroups = int64(dupes.Groups)
	stats.dupExtra = int64(dupes.Extra)

	st = time.Now()
	final := cleaner.DeriveTotals(kept)
	metrics.RecordStage(cfg.Job, "derive", nil, time.Since(st))

	// The output CSV and the optional storage load are independent consumers
	// of the final records, so they run concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st := time.Now()
		err := writer.WriteFile(cfg.Out, cleaner.OutputColumns, final, writer.Options{
			Comma:    cfg.Comma(),
			Decimals: map[string]int{cleaner.ColPrice: 2, cleaner.ColTotal: 2},
		})
		metrics.RecordStage(cfg.Job, "write", err, time.Since(st))
		if err != nil {
			return err
		}
		stats.written = int64(len(final))
		metrics.RecordRows(cfg.Job, "written", stats.written)
		return nil
	})

	if cfg.LoadKind != "" {
		g.Go(func() error {
			st := time.Now()
			loaded, batches, err := loadRecords(gctx, cfg, final)
			metrics.RecordStage(cfg.Job, "load", err, time.Since(st))
			stats.loaded = loaded
			stats.batches = batches
			metrics.RecordRows(cfg.Job, "loaded", loaded)
			metrics.RecordBatches(cfg.Job, batches)
			if err != nil {
				return fmt.Errorf("load into %s: %w", cfg.LoadKind, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logRejectionSummary(rejAgg)
	logGlobalSummary(&stats)
	return nil
}

// loadRecords opens the configured repository, ensures the destination table
// exists, and loads the records in batches. It returns how many rows and
// batches reached storage.
func loadRecords(ctx context.Context, cfg *config.Config, recs []records.Record) (int64, int64, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    cfg.LoadKind,
		DSN:     cfg.DSN,
		Table:   cfg.Table,
		Columns: cleaner.OutputColumns,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	if err := storage.EnsureTable(ctx, cfg.LoadKind, repo, cfg.Table); err != nil {
		return 0, 0, fmt.Errorf("apply DDL: %w", err)
	}

	var batches int64
	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, columns, batch)
		if err == nil {
			batches++
		}
		return n, err
	}

	rows := storage.RowsFromRecords(cleaner.OutputColumns, recs)
	total, err := storage.LoadBatches(ctx, cleaner.OutputColumns, rows, cfg.BatchSize, copyFn)
	return total, batches, err
}

// writeRejects records every dropped row in the side CSV, with its original
// row number, the offending field, and the reason. The file is created even
// when nothing was rejected, so its presence confirms the run checked.
func writeRejects(path string, recs []records.Record, rejections []cleaner.Rejection) error {
	rl, err := rejectlog.New(path, cleaner.Columns)
	if err != nil {
		return fmt.Errorf("rejects file: %w", err)
	}
	for _, rej := range rejections {
		rl.Add(rej.Row+1, rej.Field, rej.Reason, recs[rej.Row])
	}
	if err := rl.Close(); err != nil {
		return fmt.Errorf("rejects file: %w", err)
	}
	return nil
}

// openSource opens the raw input for reading. HTTP(S) locations are fetched
// with the retrying client; anything else is treated as a local path.
func openSource(ctx context.Context, loc string) (io.ReadCloser, error) {
	if isHTTP(loc) {
		return httpds.NewRemote(loc, httpds.Config{MaxRetries: 2}).Open(ctx)
	}
	return file.NewLocal(loc).Open(ctx)
}

func isHTTP(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// logRejectionSummary prints aggregated rejection reasons. Only the first N
// messages (per errAgg) are shown.
func logRejectionSummary(a *errAgg) {
	if a.count == 0 {
		return
	}
	log.Printf("rejected rows: %d (showing first %d)", a.count, len(a.first))
	for i, s := range a.first {
		log.Printf("  #%03d: %s", i+1, s)
	}
}

// logGlobalSummary prints final aggregated statistics for the run.
//
// The invariant for data rows (excluding the header) is:
//
//	read == written + rejected
//
// parse_skipped lines never become rows, so they sit outside the equation;
// repaired and unparsed count cells, not rows.
func logGlobalSummary(c *counters) {
	log.Printf(
		"summary: read=%d parse_skipped=%d repaired=%d unparsed=%d rejected=%d duplicate_groups=%d duplicate_rows=%d written=%d loaded=%d batches=%d",
		c.read,
		c.parseSkipped,
		c.repaired,
		c.unparsed,
		c.rejected,
		c.dupGroups,
		c.dupExtra,
		c.written,
		c.loaded,
		c.batches,
	)

	accounted := c.written + c.rejected
	if accounted != c.read {
		log.Printf(
			"WARNING: row accounting mismatch: read=%d accounted=%d (delta=%d)",
			c.read,
			accounted,
			c.read-accounted,
		)
	}
}

// errAgg aggregates repeated messages, keeping the first few verbatim.
type errAgg struct {
	mu      sync.Mutex
	limit   int
	count   int
	first   []string
	buckets map[string]int
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit, buckets: make(map[string]int)}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	a.buckets[msg]++
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
	a.mu.Unlock()
}
