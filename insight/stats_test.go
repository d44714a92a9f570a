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

package insight

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge/dataforge/forge"
)

// recordsTable builds a unified table from loose records via the normalizer.
func recordsTable(records ...forge.Record) arrow.Table {
	return forge.Normalize([]forge.Batch{{Records: records}})
}

func TestDescribe(t *testing.T) {
	table := recordsTable(
		forge.Record{"x": float64(1), "label": "a"},
		forge.Record{"x": float64(2), "label": "b"},
		forge.Record{"x": float64(3), "label": "c"},
	)
	defer table.Release()

	summary := Describe(table)
	require.Len(t, summary.Columns, 1, "non-numeric columns are excluded")

	stats := summary.Columns[0]
	assert.Equal(t, "x", stats.Column)
	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 2.0, stats.Mean, 1e-9)
	assert.InDelta(t, 1.0, stats.Std, 1e-9)
	assert.InDelta(t, 1.0, stats.Min, 1e-9)
	assert.InDelta(t, 1.5, stats.Q1, 1e-9)
	assert.InDelta(t, 2.0, stats.Median, 1e-9)
	assert.InDelta(t, 2.5, stats.Q3, 1e-9)
	assert.InDelta(t, 3.0, stats.Max, 1e-9)
}

func TestDescribeQuartileInterpolation(t *testing.T) {
	table := recordsTable(
		forge.Record{"v": float64(1)},
		forge.Record{"v": float64(2)},
		forge.Record{"v": float64(3)},
		forge.Record{"v": float64(4)},
	)
	defer table.Release()

	summary := Describe(table)
	require.Len(t, summary.Columns, 1)

	stats := summary.Columns[0]
	assert.InDelta(t, 1.75, stats.Q1, 1e-9)
	assert.InDelta(t, 2.5, stats.Median, 1e-9)
	assert.InDelta(t, 3.25, stats.Q3, 1e-9)
}

func TestDescribeSingleValue(t *testing.T) {
	table := recordsTable(forge.Record{"v": float64(7)})
	defer table.Release()

	summary := Describe(table)
	require.Len(t, summary.Columns, 1)

	stats := summary.Columns[0]
	assert.Equal(t, int64(1), stats.Count)
	assert.InDelta(t, 7.0, stats.Mean, 1e-9)
	assert.Zero(t, stats.Std, "sample std is undefined below two values")
	assert.InDelta(t, 7.0, stats.Median, 1e-9)
}

func TestDescribeSkipsNulls(t *testing.T) {
	table := recordsTable(
		forge.Record{"v": float64(10)},
		forge.Record{"other": "x"},
		forge.Record{"v": float64(20)},
	)
	defer table.Release()

	summary := Describe(table)
	require.Len(t, summary.Columns, 1)
	assert.Equal(t, int64(2), summary.Columns[0].Count)
	assert.InDelta(t, 15.0, summary.Columns[0].Mean, 1e-9)
}

func TestDescribeNoNumericColumns(t *testing.T) {
	table := recordsTable(forge.Record{"name": "alice"})
	defer table.Release()

	assert.True(t, Describe(table).IsEmpty())
}

func TestDescribeIntegerColumns(t *testing.T) {
	// Tables that did not pass through the normalizer can carry integer
	// columns; they participate in statistics as well.
	mem := memory.NewGoAllocator()
	b := array.NewInt64Builder(mem)
	b.AppendValues([]int64{2, 4, 6}, nil)
	arr := b.NewArray()
	b.Release()
	defer arr.Release()

	field := arrow.Field{Name: "n", Type: arrow.PrimitiveTypes.Int64, Nullable: true}
	schema := arrow.NewSchema([]arrow.Field{field}, nil)
	chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
	defer chunked.Release()
	table := array.NewTable(schema, []arrow.Column{*arrow.NewColumn(field, chunked)}, 3)
	defer table.Release()

	summary := Describe(table)
	require.Len(t, summary.Columns, 1)
	assert.InDelta(t, 4.0, summary.Columns[0].Mean, 1e-9)
}
