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

// Package export serializes a unified Arrow table for display or download:
// CSV, JSON and Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Format represents the supported export formats.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
)

// ParseFormat resolves a format name ("csv", "json", "parquet").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return 0, fmt.Errorf("unsupported export format %q", name)
	}
}

// ToCSV writes the table as CSV: one header row of column names, then all
// rows with standard CSV quoting. Nulls become empty fields.
func ToCSV(table arrow.Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	schema := table.Schema()
	headers := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if table.NumRows() == 0 || table.NumCols() == 0 {
		writer.Flush()
		return writer.Error()
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		numRows := rec.NumRows()

		for rowIdx := int64(0); rowIdx < numRows; rowIdx++ {
			row := make([]string, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = formatValue(col, int(rowIdx))
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}

	writer.Flush()
	return writer.Error()
}

// ToJSON writes the table as an indented JSON array of row objects with
// typed values. Nulls are preserved as JSON null.
func ToJSON(table arrow.Table, w io.Writer) error {
	records := make([]map[string]interface{}, 0, table.NumRows())
	schema := table.Schema()

	if table.NumRows() == 0 || table.NumCols() == 0 {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		numRows := rec.NumRows()

		for rowIdx := int64(0); rowIdx < numRows; rowIdx++ {
			record := make(map[string]interface{})
			for colIdx, col := range rec.Columns() {
				record[schema.Field(colIdx).Name] = typedValue(col, int(rowIdx))
			}
			records = append(records, record)
		}
	}
	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ToParquet writes the table as a Parquet file with snappy compression and
// the Arrow schema stored alongside.
func ToParquet(table arrow.Table, w io.Writer) error {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.WriteTable(table, table.NumRows()); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	return writer.Close()
}

// WriteFile exports the table to a file in the given format.
func WriteFile(table arrow.Table, filePath string, format Format) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ToCSV(table, f)
	case FormatJSON:
		return ToJSON(table, f)
	case FormatParquet:
		return ToParquet(table, f)
	default:
		return fmt.Errorf("unsupported export format %d", format)
	}
}

// formatValue converts an Arrow column value at a specific position to its
// CSV string form.
func formatValue(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return col.(*array.String).Value(pos)

	case arrow.BOOL:
		return fmt.Sprintf("%v", col.(*array.Boolean).Value(pos))

	case arrow.INT8:
		return fmt.Sprintf("%d", col.(*array.Int8).Value(pos))

	case arrow.INT16:
		return fmt.Sprintf("%d", col.(*array.Int16).Value(pos))

	case arrow.INT32:
		return fmt.Sprintf("%d", col.(*array.Int32).Value(pos))

	case arrow.INT64:
		return fmt.Sprintf("%d", col.(*array.Int64).Value(pos))

	case arrow.UINT8:
		return fmt.Sprintf("%d", col.(*array.Uint8).Value(pos))

	case arrow.UINT16:
		return fmt.Sprintf("%d", col.(*array.Uint16).Value(pos))

	case arrow.UINT32:
		return fmt.Sprintf("%d", col.(*array.Uint32).Value(pos))

	case arrow.UINT64:
		return fmt.Sprintf("%d", col.(*array.Uint64).Value(pos))

	case arrow.FLOAT16:
		return col.(*array.Float16).Value(pos).String()

	case arrow.FLOAT32:
		return fmt.Sprintf("%g", col.(*array.Float32).Value(pos))

	case arrow.FLOAT64:
		return fmt.Sprintf("%g", col.(*array.Float64).Value(pos))

	default:
		return col.ValueStr(pos)
	}
}

// typedValue returns the typed value for JSON export (preserves types).
func typedValue(col arrow.Array, pos int) interface{} {
	if col.IsNull(pos) {
		return nil
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return col.(*array.String).Value(pos)

	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos)

	case arrow.INT8:
		return col.(*array.Int8).Value(pos)

	case arrow.INT16:
		return col.(*array.Int16).Value(pos)

	case arrow.INT32:
		return col.(*array.Int32).Value(pos)

	case arrow.INT64:
		return col.(*array.Int64).Value(pos)

	case arrow.UINT8:
		return col.(*array.Uint8).Value(pos)

	case arrow.UINT16:
		return col.(*array.Uint16).Value(pos)

	case arrow.UINT32:
		return col.(*array.Uint32).Value(pos)

	case arrow.UINT64:
		return col.(*array.Uint64).Value(pos)

	case arrow.FLOAT16:
		return col.(*array.Float16).Value(pos).Float32()

	case arrow.FLOAT32:
		return col.(*array.Float32).Value(pos)

	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos)

	default:
		return formatValue(col, pos)
	}
}
