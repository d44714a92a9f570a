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
	"fmt"
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// columnKind is the inferred unified type of a column, computed once over
// all batches. The insight stage reads the resulting Arrow schema instead of
// re-probing values.
type columnKind int

const (
	kindUnset columnKind = iota // column seen, but only null values
	kindNumeric
	kindBool
	kindString
)

// merge widens a column kind with a new observation. Conflicting
// observations collapse to string.
func (k columnKind) merge(other columnKind) columnKind {
	switch {
	case other == kindUnset:
		return k
	case k == kindUnset:
		return other
	case k == other:
		return k
	default:
		return kindString
	}
}

// dataType maps a unified kind to its Arrow column type.
func (k columnKind) dataType() arrow.DataType {
	switch k {
	case kindNumeric:
		return arrow.PrimitiveTypes.Float64
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// Normalize unifies a sequence of record batches into a single table.
//
// The column set is the union of all fields seen across batches, in
// first-seen order (fields within one text record are taken in sorted
// order). Rows are the concatenation of all batches in arrival order; a row
// missing a column gets null there. Each column carries an explicit type
// inferred over the whole input: all-numeric observations become Float64,
// all-boolean become Boolean, everything else (including mixed columns)
// becomes String. Nested values are JSON-encoded into string cells.
//
// An empty or nil batch sequence yields a table with zero columns and zero
// rows. Normalize performs no I/O and does not error.
func Normalize(batches []Batch) arrow.Table {
	var (
		names []string
		kinds = make(map[string]columnKind)
	)
	seen := func(name string, k columnKind) {
		prev, ok := kinds[name]
		if !ok {
			names = append(names, name)
		}
		kinds[name] = prev.merge(k)
	}

	// First pass: ordered column union and per-column type inference.
	for _, batch := range batches {
		if batch.IsChunk() {
			for _, field := range batch.Chunk.Schema().Fields() {
				seen(field.Name, kindOfArrowType(field.Type.ID()))
			}
			continue
		}
		for _, rec := range batch.Records {
			fields := make([]string, 0, len(rec))
			for name := range rec {
				fields = append(fields, name)
			}
			sort.Strings(fields)
			for _, name := range fields {
				seen(name, kindOfValue(rec[name]))
			}
		}
	}

	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: kinds[name].dataType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	if len(names) == 0 {
		// No columns, but rows may still exist (records with zero
		// fields). Every batch contributes all its rows regardless.
		totalRows := int64(0)
		for _, batch := range batches {
			totalRows += int64(batch.Len())
		}
		return array.NewTable(schema, nil, totalRows)
	}

	// Second pass: rebuild every batch against the unified schema.
	mem := memory.NewGoAllocator()
	recs := make([]arrow.Record, 0, len(batches))
	for _, batch := range batches {
		recs = append(recs, rebuildBatch(mem, schema, names, kinds, batch))
	}

	table := array.NewTableFromRecords(schema, recs)
	for _, rec := range recs {
		rec.Release()
	}
	return table
}

// rebuildBatch converts one batch into an Arrow record with the unified
// schema, null-filling columns the batch does not carry.
func rebuildBatch(mem memory.Allocator, schema *arrow.Schema, names []string, kinds map[string]columnKind, batch Batch) arrow.Record {
	numRows := batch.Len()
	arrs := make([]arrow.Array, len(names))

	for i, name := range names {
		builder := array.NewBuilder(mem, schema.Field(i).Type)

		if batch.IsChunk() {
			appendChunkColumn(builder, kinds[name], batch.Chunk, name, numRows)
		} else {
			for _, rec := range batch.Records {
				appendCell(builder, kinds[name], rec[name])
			}
		}

		arrs[i] = builder.NewArray()
		builder.Release()
	}

	rec := array.NewRecord(schema, arrs, int64(numRows))
	for _, arr := range arrs {
		arr.Release()
	}
	return rec
}

// appendChunkColumn copies one column of a tabular chunk into a unified
// builder, coercing values to the unified column type.
func appendChunkColumn(builder array.Builder, kind columnKind, chunk arrow.Record, name string, numRows int) {
	indices := chunk.Schema().FieldIndices(name)
	if len(indices) == 0 {
		for i := 0; i < numRows; i++ {
			builder.AppendNull()
		}
		return
	}

	col := chunk.Column(indices[0])
	for pos := 0; pos < col.Len(); pos++ {
		if col.IsNull(pos) {
			builder.AppendNull()
			continue
		}
		appendCell(builder, kind, arrowValue(col, pos))
	}
}

// appendCell appends one raw value to a unified builder, coercing it to the
// column's inferred type. Nil appends null.
func appendCell(builder array.Builder, kind columnKind, value interface{}) {
	if value == nil {
		builder.AppendNull()
		return
	}

	switch kind {
	case kindNumeric:
		b := builder.(*array.Float64Builder)
		if f, ok := asFloat(value); ok {
			b.Append(f)
		} else {
			b.AppendNull()
		}
	case kindBool:
		b := builder.(*array.BooleanBuilder)
		if v, ok := value.(bool); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	default:
		b := builder.(*array.StringBuilder)
		b.Append(stringify(value))
	}
}

// kindOfArrowType classifies an Arrow column type into a unified kind.
func kindOfArrowType(id arrow.Type) columnKind {
	switch id {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return kindNumeric
	case arrow.BOOL:
		return kindBool
	default:
		return kindString
	}
}

// kindOfValue classifies a decoded JSON value into a unified kind.
func kindOfValue(value interface{}) columnKind {
	switch value.(type) {
	case nil:
		return kindUnset
	case float64, json.Number:
		return kindNumeric
	case bool:
		return kindBool
	default:
		return kindString
	}
}

// arrowValue extracts the value at pos as a plain Go value: numerics as
// float64, booleans as bool, everything else as its string form.
func arrowValue(col arrow.Array, pos int) interface{} {
	switch col.DataType().ID() {
	case arrow.INT8:
		return float64(col.(*array.Int8).Value(pos))
	case arrow.INT16:
		return float64(col.(*array.Int16).Value(pos))
	case arrow.INT32:
		return float64(col.(*array.Int32).Value(pos))
	case arrow.INT64:
		return float64(col.(*array.Int64).Value(pos))
	case arrow.UINT8:
		return float64(col.(*array.Uint8).Value(pos))
	case arrow.UINT16:
		return float64(col.(*array.Uint16).Value(pos))
	case arrow.UINT32:
		return float64(col.(*array.Uint32).Value(pos))
	case arrow.UINT64:
		return float64(col.(*array.Uint64).Value(pos))
	case arrow.FLOAT16:
		return float64(col.(*array.Float16).Value(pos).Float32())
	case arrow.FLOAT32:
		return float64(col.(*array.Float32).Value(pos))
	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos)
	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos)
	case arrow.STRING:
		return col.(*array.String).Value(pos)
	default:
		return col.ValueStr(pos)
	}
}

// asFloat coerces a decoded value to float64.
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// stringify renders a value into a string cell. Composite values are
// JSON-encoded so nested records survive normalization losslessly.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
