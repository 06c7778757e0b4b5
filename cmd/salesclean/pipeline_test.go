package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"salesclean/internal/cleaner"
	"salesclean/internal/config"
	"salesclean/internal/storage"
)

// makeTempCSV creates a CSV with the given header and rows.
func makeTempCSV(tb testing.TB, header []string, rows [][]string) string {
	tb.Helper()
	dir := tb.TempDir()
	p := filepath.Join(dir, "data.csv")
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		tb.Fatalf("write csv: %v", err)
	}
	return p
}

// testConfig builds a minimal working run config around an input path.
func testConfig(tb testing.TB, in string) *config.Config {
	tb.Helper()
	return &config.Config{
		In:        in,
		Out:       filepath.Join(tb.TempDir(), "clean.csv"),
		BatchSize: 500,
		Job:       "test",
	}
}

// readOut reads the produced output file.
func readOut(tb testing.TB, path string) string {
	tb.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read output: %v", err)
	}
	return string(b)
}

// openSQL opens a raw *sql.DB to the same DSN so we can verify inserted rows.
// The storage/all blank import in main.go makes the driver available.
func openSQL(tb testing.TB, dsn string) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		tb.Fatalf("sql open: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

/*
End-to-end test over the canonical messy fixture: synonym headers with stray
spaces, a padded product name, an absent price that must be imputed from the
column median, and a negative price that must reject its row.
*/
func TestRun_EndToEnd(t *testing.T) {
	in := makeTempCSV(t,
		[]string{"Product Name", " Category ", " Price", " Quantity"},
		[][]string{
			{"  Widget A  ", "Electronics", "", "2"},
			{"Gadget B", "electronic", "-5.00", "1"},
			{"Widget A", "Electronics", "10.00", "3"},
		},
	)
	cfg := testConfig(t, in)

	if err := run(context.Background(), cfg, true); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "product,category,price,quantity,total_sales\n" +
		"Widget A,Electronics,10.00,2,20.00\n" +
		"Widget A,Electronics,10.00,3,30.00\n"
	if got := readOut(t, cfg.Out); got != want {
		t.Fatalf("output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

// With -rejects set, every dropped row lands in the side CSV with its row
// number, offending field, reason, and the cell values it carried.
func TestRun_WritesRejectsFile(t *testing.T) {
	in := makeTempCSV(t,
		[]string{"Product Name", " Category ", " Price", " Quantity"},
		[][]string{
			{"  Widget A  ", "Electronics", "", "2"},
			{"Gadget B", "electronic", "-5.00", "1"},
			{"Widget A", "Electronics", "10.00", "3"},
		},
	)
	cfg := testConfig(t, in)
	cfg.Rejects = filepath.Join(t.TempDir(), "audit", "rejects.csv")

	if err := run(context.Background(), cfg, false); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(cfg.Rejects)
	if err != nil {
		t.Fatalf("open rejects: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read rejects: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rejects rows = %d, want header plus one reject", len(rows))
	}
	wantHeader := []string{"row", "field", "reason", "product", "category", "price", "quantity"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v, want %v", rows[0], wantHeader)
	}
	wantRow := []string{"2", "price", `field "price" is negative (-5)`, "Gadget B", "electronic", "-5", "1"}
	if !reflect.DeepEqual(rows[1], wantRow) {
		t.Fatalf("reject row = %v, want %v", rows[1], wantRow)
	}

	// The side file must not disturb the main output.
	if got := readOut(t, cfg.Out); !strings.HasPrefix(got, "product,category,") {
		t.Fatalf("output = %q, want the cleaned CSV", got)
	}
}

/*
End-to-end test with a storage load: runs the full pipeline and loads the
cleaned rows into SQLite (file-backed DB) with a batch size of 1 to force
multiple CopyFrom calls. Verifies DB contents via direct SQL.
*/
func TestRun_EndToEnd_SQLiteLoad(t *testing.T) {
	in := makeTempCSV(t,
		[]string{"product", "category", "price", "quantity"},
		[][]string{
			{"Widget A", "Electronics", "10.00", "2"},
			{"Widget A", "Electronics", "10.00", "3"},
		},
	)

	dbPath := filepath.Join(t.TempDir(), "e2e_load.sqlite")
	dsn := "file:" + url.PathEscape(dbPath) + "?mode=rwc"

	cfg := testConfig(t, in)
	cfg.LoadKind = "sqlite"
	cfg.DSN = dsn
	cfg.Table = "sales_clean_e2e"
	cfg.BatchSize = 1

	if err := run(context.Background(), cfg, false); err != nil {
		t.Fatalf("run: %v", err)
	}

	db := openSQL(t, dsn)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sales_clean_e2e`).Scan(&n); err != nil {
		t.Fatalf("verify count: %v", err)
	}
	if n != 2 {
		t.Fatalf("row count mismatch: got %d want 2", n)
	}
	var total float64
	if err := db.QueryRow(`SELECT SUM(total_sales) FROM sales_clean_e2e`).Scan(&total); err != nil {
		t.Fatalf("verify sum: %v", err)
	}
	if total != 50 {
		t.Fatalf("SUM(total_sales) = %v, want 50", total)
	}
}

// TestRun_HTTPSource runs the pipeline against a CSV served over HTTP; the
// input location picks the remote source instead of the local file one.
func TestRun_HTTPSource(t *testing.T) {
	const raw = "product,category,price,quantity\nWidget A,Electronics,10.00,2\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, raw)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	if err := run(context.Background(), cfg, false); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "product,category,price,quantity,total_sales\n" +
		"Widget A,Electronics,10.00,2,20.00\n"
	if got := readOut(t, cfg.Out); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

// TestRun_HeaderOnlyInput checks that an input with no data rows produces a
// header-only output and no error.
func TestRun_HeaderOnlyInput(t *testing.T) {
	in := makeTempCSV(t, []string{"product", "category", "price", "quantity"}, nil)
	cfg := testConfig(t, in)

	if err := run(context.Background(), cfg, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := readOut(t, cfg.Out), "product,category,price,quantity,total_sales\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRun_MissingInputFile(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope.csv"))

	err := run(context.Background(), cfg, false)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist in chain", err)
	}
}

// TestRun_SchemaMismatch ensures a missing required column aborts the run
// with a *cleaner.SchemaError naming the column.
func TestRun_SchemaMismatch(t *testing.T) {
	in := makeTempCSV(t,
		[]string{"product", "category", "price"},
		[][]string{{"Widget A", "Electronics", "10.00"}},
	)
	cfg := testConfig(t, in)

	err := run(context.Background(), cfg, false)
	if err == nil {
		t.Fatal("expected schema error")
	}
	var se *cleaner.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *cleaner.SchemaError in chain", err)
	}
	if len(se.Missing) != 1 || se.Missing[0] != "quantity" {
		t.Fatalf("SchemaError.Missing = %v, want [quantity]", se.Missing)
	}
}

// TestRun_NoValidValuesToImpute ensures a numeric column that needs a fill
// but has no valid observed values aborts the run.
func TestRun_NoValidValuesToImpute(t *testing.T) {
	in := makeTempCSV(t,
		[]string{"product", "category", "price", "quantity"},
		[][]string{
			{"Widget A", "Electronics", "", "2"},
			{"Gadget B", "Toys", "ten dollars", "3"},
		},
	)
	cfg := testConfig(t, in)

	err := run(context.Background(), cfg, false)
	if err == nil {
		t.Fatal("expected imputation error")
	}
	var ide *cleaner.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("error = %v, want *cleaner.InsufficientDataError in chain", err)
	}
	if ide.Field != "price" {
		t.Fatalf("InsufficientDataError.Field = %q, want price", ide.Field)
	}
}

// failingRepo satisfies storage.Repository and fails every CopyFrom.
type failingRepo struct {
	closed bool
}

func (f *failingRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return 0, fmt.Errorf("copy blew up")
}
func (f *failingRepo) Exec(ctx context.Context, sql string) error { return nil }
func (f *failingRepo) Close()                                     { f.closed = true }

// TestRun_LoadFailureSurfaces swaps the repository seam for a failing fake and
// checks that the error is reported while the CSV output still lands.
func TestRun_LoadFailureSurfaces(t *testing.T) {
	origRepo := newRepositoryFn
	defer func() { newRepositoryFn = origRepo }()

	repo := &failingRepo{}
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		if cfg.Kind != "faulty" {
			t.Errorf("cfg.Kind = %q, want faulty", cfg.Kind)
		}
		return repo, nil
	}
	storage.RegisterDDL("faulty", func(ctx context.Context, r storage.Repository, table string) error {
		return r.Exec(ctx, "")
	})

	in := makeTempCSV(t,
		[]string{"product", "category", "price", "quantity"},
		[][]string{{"Widget A", "Electronics", "10.00", "2"}},
	)
	cfg := testConfig(t, in)
	cfg.LoadKind = "faulty"
	cfg.DSN = "ignored"
	cfg.Table = "t"

	err := run(context.Background(), cfg, false)
	if err == nil {
		t.Fatal("expected load error")
	}
	if !strings.Contains(err.Error(), "load into faulty") {
		t.Fatalf("error = %v, want load wrapper", err)
	}
	if !repo.closed {
		t.Fatal("repository was not closed after failure")
	}
	if got := readOut(t, cfg.Out); !strings.HasPrefix(got, "product,category,") {
		t.Fatalf("output CSV missing despite load failure: %q", got)
	}
}
