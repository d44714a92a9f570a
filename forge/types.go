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

// Package forge implements the ingestion and normalization stages of the
// DataForge pipeline: heterogeneous raw input (free text, JSON, spreadsheet
// streams) is turned into bounded record batches and then unified into a
// single Arrow table with a stable, explicitly typed schema.
package forge

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// SourceKind identifies the kind of raw input handed to Ingest.
type SourceKind int

const (
	// SourceText is a free-text or JSON blob.
	SourceText SourceKind = iota
	// SourceTabular is a readable byte stream holding spreadsheet data
	// (CSV, XLSX or Parquet).
	SourceTabular
)

// String returns the string representation of a SourceKind.
func (k SourceKind) String() string {
	switch k {
	case SourceText:
		return "Text"
	case SourceTabular:
		return "Tabular"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// TabularFormat is the detected on-wire format of a tabular source.
type TabularFormat int

const (
	// FormatUnknown means the content could not be identified.
	FormatUnknown TabularFormat = iota
	// FormatCSV is delimiter-separated text.
	FormatCSV
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX
	// FormatParquet is an Apache Parquet file.
	FormatParquet
)

// String returns the string representation of a TabularFormat.
func (f TabularFormat) String() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatXLSX:
		return "XLSX"
	case FormatParquet:
		return "Parquet"
	default:
		return "Unknown"
	}
}

// Record is one loosely typed data row: field name to scalar or nested value.
// There is no fixed schema; fields vary by source.
type Record map[string]interface{}

// Batch is a bounded unit of ingested data. Exactly one of the two members
// is set: Records for rows parsed out of a text blob, Chunk for a contiguous
// row range of a tabular source.
type Batch struct {
	Records []Record
	Chunk   arrow.Record
}

// IsChunk reports whether the batch carries a tabular row chunk.
func (b Batch) IsChunk() bool {
	return b.Chunk != nil
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int {
	if b.Chunk != nil {
		return int(b.Chunk.NumRows())
	}
	return len(b.Records)
}

// Release frees the Arrow buffers held by a chunk batch. Record batches
// hold no Arrow memory and Release is a no-op for them.
func (b Batch) Release() {
	if b.Chunk != nil {
		b.Chunk.Release()
	}
}

// TextParse is the outcome of parsing a text blob. Parsing never fails;
// input that is not valid JSON degrades to a single fallback record holding
// the original text under the "raw" field, and Fallback is set so callers
// can see which branch was taken.
type TextParse struct {
	Records  []Record
	Fallback bool
}

// Config carries the per-invocation settings of the ingestion stage.
// There is no ambient state: every knob travels through this value.
type Config struct {
	// ChunkSize bounds the number of rows per tabular batch.
	// Values <= 0 fall back to DefaultChunkSize.
	ChunkSize int

	// Delimiter is the CSV field separator. Zero means auto-detect from
	// the first line of the input.
	Delimiter rune
}

// DefaultChunkSize is the row bound applied when Config.ChunkSize is unset.
const DefaultChunkSize = 10000

// DefaultConfig returns the ingestion defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
		Delimiter: 0,
	}
}

// chunkSize resolves the effective row bound.
func (c Config) chunkSize() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}
