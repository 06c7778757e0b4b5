package csv

import (
	"reflect"
	"strings"
	"testing"

	"salesclean/internal/records"
)

func TestParse_HeaderAndRows(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(
		"Product Name, Price ,Quantity\n" +
			"Widget A,10.00,2\n" +
			"Widget B,,3\n")

	p := NewParser(Options{TrimSpace: true})
	headers, recs, skipped, err := p.Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}

	wantHeaders := []string{"Product Name", "Price", "Quantity"}
	if !reflect.DeepEqual(headers, wantHeaders) {
		t.Fatalf("headers = %#v, want %#v", headers, wantHeaders)
	}

	wantRecs := []records.Record{
		{"Product Name": "Widget A", "Price": "10.00", "Quantity": "2"},
		{"Product Name": "Widget B", "Price": nil, "Quantity": "3"},
	}
	if !reflect.DeepEqual(recs, wantRecs) {
		t.Fatalf("records = %#v, want %#v", recs, wantRecs)
	}
}

func TestParse_StripsBOM(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("\uFEFFproduct,price\nWidget,1\n")
	headers, _, _, err := NewParser(Options{}).Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if headers[0] != "product" {
		t.Fatalf("first header = %q, want %q after BOM strip", headers[0], "product")
	}
}

// TestParse_SkipsMisalignedRows checks that a row with the wrong field count
// is dropped and counted while surrounding rows still parse.
func TestParse_SkipsMisalignedRows(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(
		"product,price\n" +
			"Widget A,10.00\n" +
			"broken,1,EXTRA\n" +
			"Widget B,5.50\n")

	_, recs, skipped, err := NewParser(Options{}).Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[1]["product"] != "Widget B" {
		t.Fatalf("row after skip = %v, want Widget B", recs[1]["product"])
	}
}

func TestParse_WhitespaceCellReadsAsAbsent(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("product,price\nWidget,\"   \"\n")
	_, recs, _, err := NewParser(Options{TrimSpace: true}).Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v := recs[0]["price"]; v != nil {
		t.Fatalf("whitespace-only cell = %#v, want nil", v)
	}
}

func TestParse_BlankHeaderCellGetsSyntheticKey(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("product,,price\nWidget,x,1\n")
	headers, recs, _, err := NewParser(Options{}).Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if headers[1] != "" {
		t.Fatalf("blank header preserved as %q, want empty string", headers[1])
	}
	if recs[0]["col_1"] != "x" {
		t.Fatalf("synthetic key col_1 = %v, want %q", recs[0]["col_1"], "x")
	}
}

func TestParse_CustomDelimiter(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("product;price\nWidget;1.50\n")
	_, recs, _, err := NewParser(Options{Comma: ';'}).Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if recs[0]["price"] != "1.50" {
		t.Fatalf("price = %v, want %q", recs[0]["price"], "1.50")
	}
}

func TestParse_EmptyInputIsHeaderError(t *testing.T) {
	t.Parallel()

	_, _, _, err := NewParser(Options{}).Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("Parse on empty input: expected error, got nil")
	}
	if !strings.Contains(err.Error(), "read csv header") {
		t.Fatalf("error = %v, want mention of the header read", err)
	}
}
