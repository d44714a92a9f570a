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

package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// readTabular reads a tabular stream to completion and decodes it into one
// in-memory Arrow table. The format is sniffed from the content: XLSX and
// Parquet by their magic bytes, everything else is tried as CSV. The full
// read bounds the supported scale to what fits in memory; streaming decode
// is deliberately not attempted.
func readTabular(r io.Reader, cfg Config) (arrow.Table, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular source: %w", err)
	}
	if len(buf) == 0 {
		return nil, errEmptyTabular
	}

	switch SniffFormat(buf) {
	case FormatXLSX:
		return readXLSX(buf)
	case FormatParquet:
		return readParquet(buf)
	case FormatCSV:
		return readCSV(buf, cfg)
	default:
		return nil, errUnknownFormat
	}
}

// SniffFormat identifies the tabular format from the leading bytes of the
// content. XLSX workbooks are ZIP containers ("PK\x03\x04"), Parquet files
// open with the "PAR1" magic; anything else that looks like text is treated
// as CSV.
func SniffFormat(buf []byte) TabularFormat {
	if len(buf) >= 4 {
		if bytes.Equal(buf[:4], []byte("PK\x03\x04")) {
			return FormatXLSX
		}
		if bytes.Equal(buf[:4], []byte("PAR1")) {
			return FormatParquet
		}
	}
	if len(buf) > 0 {
		return FormatCSV
	}
	return FormatUnknown
}

// DetectDelimiter picks the CSV field separator by counting candidate
// separators in the first line. Candidates are tried in a fixed order so
// ties resolve deterministically; comma wins when nothing matches.
func DetectDelimiter(firstLine string) rune {
	separators := []rune{',', ';', '\t', '|'}

	maxCount := 0
	detected := ','
	for _, sep := range separators {
		if count := strings.Count(firstLine, string(sep)); count > maxCount {
			maxCount = count
			detected = sep
		}
	}
	return detected
}

// readCSV decodes delimiter-separated text into an Arrow table with inferred
// column types. The first row is taken as the header.
func readCSV(buf []byte, cfg Config) (arrow.Table, error) {
	delim := cfg.Delimiter
	if delim == 0 {
		firstLine := string(buf)
		if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
			firstLine = firstLine[:idx]
		}
		delim = DetectDelimiter(firstLine)
	}

	mem := memory.NewGoAllocator()
	rdr := csv.NewInferringReader(bytes.NewReader(buf),
		csv.WithAllocator(mem),
		csv.WithHeader(true),
		csv.WithComma(delim),
		csv.WithChunk(-1),
		csv.WithNullReader(true, ""),
	)
	defer rdr.Release()

	var recs []arrow.Record
	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := rdr.Err(); err != nil {
		for _, rec := range recs {
			rec.Release()
		}
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	schema := rdr.Schema()
	if schema == nil {
		return nil, errEmptyTabular
	}
	if len(recs) == 0 {
		return emptyTable(schema), nil
	}

	table := array.NewTableFromRecords(schema, recs)
	for _, rec := range recs {
		rec.Release()
	}
	return table, nil
}

// readXLSX decodes the first sheet of a workbook. Cell values arrive as
// strings; a column where every non-empty cell parses as a number becomes a
// Float64 column, everything else stays String. Empty cells become nulls.
func readXLSX(buf []byte) (arrow.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errEmptyTabular
	}

	headers := rows[0]
	data := rows[1:]

	names := make([]string, len(headers))
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("column_%d", i)
		}
		names[i] = h
	}

	// GetRows trims trailing empty cells, so rows can be ragged.
	cell := func(row []string, col int) (string, bool) {
		if col >= len(row) || row[col] == "" {
			return "", false
		}
		return row[col], true
	}

	mem := memory.NewGoAllocator()
	fields := make([]arrow.Field, len(names))
	columns := make([]arrow.Column, len(names))

	for col, name := range names {
		numeric := true
		for _, row := range data {
			v, ok := cell(row, col)
			if !ok {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
				break
			}
		}

		var arr arrow.Array
		if numeric {
			b := array.NewFloat64Builder(mem)
			for _, row := range data {
				v, ok := cell(row, col)
				if !ok {
					b.AppendNull()
					continue
				}
				fv, _ := strconv.ParseFloat(v, 64)
				b.Append(fv)
			}
			arr = b.NewArray()
			b.Release()
			fields[col] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		} else {
			b := array.NewStringBuilder(mem)
			for _, row := range data {
				v, ok := cell(row, col)
				if !ok {
					b.AppendNull()
					continue
				}
				b.Append(v)
			}
			arr = b.NewArray()
			b.Release()
			fields[col] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
		}

		chunked := arrow.NewChunked(fields[col].Type, []arrow.Array{arr})
		columns[col] = *arrow.NewColumn(fields[col], chunked)
		chunked.Release()
		arr.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewTable(schema, columns, int64(len(data))), nil
}

// readParquet decodes a Parquet file into an Arrow table.
func readParquet(buf []byte) (arrow.Table, error) {
	pf, err := file.NewParquetReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return table, nil
}

// chunkTable partitions a table into contiguous row-range chunks of at most
// chunkSize rows each, preserving row order. A table with zero rows yields
// no batches.
func chunkTable(table arrow.Table, chunkSize int) []Batch {
	if table.NumRows() == 0 {
		return nil
	}

	tr := array.NewTableReader(table, int64(chunkSize))
	defer tr.Release()

	var batches []Batch
	for tr.Next() {
		rec := tr.Record()
		rec.Retain()
		batches = append(batches, Batch{Chunk: rec})
	}
	return batches
}

// emptyTable builds a zero-row table for a known schema.
func emptyTable(schema *arrow.Schema) arrow.Table {
	columns := make([]arrow.Column, schema.NumFields())
	for i, field := range schema.Fields() {
		chunked := arrow.NewChunked(field.Type, nil)
		columns[i] = *arrow.NewColumn(field, chunked)
		chunked.Release()
	}
	return array.NewTable(schema, columns, 0)
}
