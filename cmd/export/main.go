// Command export renders the merged country dataset to CSV or JSON without
// starting the server. It reads the same data files the server uses and
// applies the same merge, so the output matches what the API would serve.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"mandatemap/internal/country"
	"mandatemap/internal/dataset"
)

func main() {
	var (
		countriesPath  = flag.String("countries", "data/countries.json", "country identity dataset")
		compliancePath = flag.String("compliance", "data/compliance.json", "compliance dataset")
		format         = flag.String("format", "csv", "output format: csv or json")
		outPath        = flag.String("out", "", "output file (stdout when empty)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := dataset.Open(ctx, *countriesPath, *compliancePath)
	if err != nil {
		log.Fatalf("load datasets failed: %v", err)
	}
	defer data.Close(ctx)

	countries := country.MergeCountries(data.Identities(), data.Compliance(), time.Now())

	out := os.Stdout
	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			log.Fatalf("create output directory failed: %v", err)
		}
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output file failed: %v", err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "csv":
		err = country.WriteCSV(out, countries)
	case "json":
		err = country.WriteJSON(out, countries)
	default:
		log.Fatalf("unknown format %q: want csv or json", *format)
	}
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}

	if *outPath != "" {
		log.Printf("exported %d countries to %s", len(countries), *outPath)
	}
}
