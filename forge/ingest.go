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
	"encoding/json"
	"io"
)

// RawField is the column under which unparsable text input is carried.
const RawField = "raw"

// ValueField is the column under which non-object JSON array elements are
// carried when wrapped into a Record.
const ValueField = "value"

// Ingest turns raw input into a sequence of record batches.
//
// For SourceText, input must be a string; it is parsed as JSON with the
// fallback semantics of ParseText and always yields exactly one batch.
//
// For SourceTabular, input must be an io.Reader; the stream is read to
// completion into one in-memory table and sliced into contiguous row chunks
// of at most cfg.ChunkSize rows each, in row order. A source with zero rows
// yields no batches. Anything that is not a readable stream, or content that
// cannot be decoded as CSV, XLSX or Parquet, also yields no batches.
//
// Ingest never returns an error: every malformed-input case is represented
// as degraded but valid output.
func Ingest(kind SourceKind, input interface{}, cfg Config) []Batch {
	switch kind {
	case SourceText:
		s, ok := input.(string)
		if !ok {
			return nil
		}
		parse := ParseText(s)
		return []Batch{{Records: parse.Records}}

	case SourceTabular:
		r, ok := input.(io.Reader)
		if !ok || r == nil {
			return nil
		}
		table, err := readTabular(r, cfg)
		if err != nil {
			return nil
		}
		defer table.Release()
		return chunkTable(table, cfg.chunkSize())

	default:
		return nil
	}
}

// ParseText parses a text blob as JSON.
//
// A JSON object becomes one Record. A JSON array becomes one Record per
// element; elements that are not objects are wrapped under the ValueField
// column so they survive normalization. Any parse failure degrades to a
// single fallback record {"raw": input} with Fallback set.
func ParseText(input string) TextParse {
	var parsed interface{}
	if err := json.Unmarshal([]byte(input), &parsed); err != nil {
		return fallbackParse(input)
	}

	switch v := parsed.(type) {
	case map[string]interface{}:
		return TextParse{Records: []Record{Record(v)}}
	case []interface{}:
		records := make([]Record, 0, len(v))
		for _, elem := range v {
			records = append(records, wrapElement(elem))
		}
		return TextParse{Records: records}
	default:
		// Bare scalar JSON ("42", "true", quoted string). Valid JSON,
		// but not row-shaped; treat like a raw blob.
		return fallbackParse(input)
	}
}

func fallbackParse(input string) TextParse {
	return TextParse{
		Records:  []Record{{RawField: input}},
		Fallback: true,
	}
}

// wrapElement turns one JSON array element into a Record. Objects map
// directly; everything else is carried through under ValueField.
func wrapElement(elem interface{}) Record {
	if obj, ok := elem.(map[string]interface{}); ok {
		return Record(obj)
	}
	return Record{ValueField: elem}
}
