package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"salesclean/internal/probe"
)

// main is the entrypoint for the probing CLI. It reads a small sample from the
// start of a raw sales CSV, shows how its headers map onto the cleaned schema,
// infers a SQL-like type per column, and counts empty cells, so a file of
// unknown quality can be inspected before a full cleaning run.
func main() {
	var (
		flagIn = flag.String(
			"in",
			"data/raw/sales_data_raw.csv",
			"path or http(s) URL of the raw CSV to sample",
		)
		flagBytes = flag.Int64(
			"bytes",
			64*1024,
			"number of bytes to sample from the start of the input",
		)
		flagDelimiter = flag.String(
			"delimiter",
			",",
			`field delimiter ("," ";" "tab" ...)`,
		)
		flagJSON = flag.Bool(
			"json",
			false,
			"print the report as JSON instead of text",
		)
	)
	flag.Parse()

	rep, err := probe.Run(context.Background(), probe.Options{
		Path:      *flagIn,
		MaxBytes:  *flagBytes,
		Delimiter: *flagDelimiter,
	})
	if err != nil {
		log.Fatalf("probe: %v", err)
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("encode report: %v", err)
		}
		return
	}
	os.Stdout.WriteString(rep.Render())
}
