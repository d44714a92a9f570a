// Copyright 2026 DataForge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command dataforge runs the ingest -> normalize -> insight pipeline over a
// text blob or a tabular file and prints the results. It is presentation
// glue only; all logic lives in the forge, insight and export packages.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dataforge/dataforge/export"
	"github.com/dataforge/dataforge/forge"
	"github.com/dataforge/dataforge/insight"
)

func main() {
	var (
		text       = flag.String("text", "", "text/JSON input to ingest")
		filePath   = flag.String("file", "", "tabular input file (CSV, XLSX or Parquet)")
		domain     = flag.String("domain", insight.DefaultDomain, "domain label for display text (generic, finance, retail, ...)")
		chunkSize  = flag.Int("chunk", forge.DefaultChunkSize, "maximum rows per ingested batch")
		exportPath = flag.String("o", "", "export the unified table to this file")
		formatName = flag.String("format", "csv", "export format: csv, json or parquet")
		gpuMode    = flag.Bool("gpu", false, "label the run as GPU mode (display only)")
	)
	flag.Parse()

	if *text == "" && *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: dataforge -text <json> | -file <path> [-domain d] [-chunk n] [-o out -format f]")
		os.Exit(2)
	}

	mode := "CPU"
	if *gpuMode {
		mode = "GPU"
	}
	log.Printf("processing mode: %s", mode)

	cfg := forge.DefaultConfig()
	cfg.ChunkSize = *chunkSize

	batches := ingestInput(*text, *filePath, cfg)
	log.Printf("ingested %d batches", len(batches))

	table := forge.Normalize(batches)
	defer table.Release()
	for _, b := range batches {
		b.Release()
	}
	log.Printf("unified table: %d rows, %d columns", table.NumRows(), table.NumCols())

	result, headline := insight.Generate(table, *domain)

	fmt.Println(headline)
	printSummary(result.Summary)
	printChart(result.Chart)

	if *exportPath != "" {
		format, err := export.ParseFormat(*formatName)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteFile(table, *exportPath, format); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		log.Printf("exported table to %s", *exportPath)
	}
}

// ingestInput picks the source kind: inline text wins, otherwise the file is
// ingested as a tabular stream, except JSON/text files which go through the
// text path.
func ingestInput(text, filePath string, cfg forge.Config) []forge.Batch {
	if text != "" {
		return forge.Ingest(forge.SourceText, text, cfg)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".json" || ext == ".txt" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("failed to read %s: %v", filePath, err)
		}
		return forge.Ingest(forge.SourceText, string(content), cfg)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", filePath, err)
	}
	defer f.Close()
	return forge.Ingest(forge.SourceTabular, f, cfg)
}

func printSummary(summary insight.Summary) {
	if summary.IsEmpty() {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tcount\tmean\tstd\tmin\tq1\tmedian\tq3\tmax")
	for _, c := range summary.Columns {
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
			c.Column, c.Count, c.Mean, c.Std, c.Min, c.Q1, c.Median, c.Q3, c.Max)
	}
	w.Flush()
}

func printChart(chart insight.ChartConfig) {
	b, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		log.Printf("failed to encode chart: %v", err)
		return
	}
	fmt.Println(string(b))
}
