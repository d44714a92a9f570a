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
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

// chunkColumnFloats extracts a numeric column of a chunk batch as float64s.
func chunkColumnFloats(t *testing.T, b Batch, name string) []float64 {
	t.Helper()
	require.True(t, b.IsChunk())

	indices := b.Chunk.Schema().FieldIndices(name)
	require.NotEmpty(t, indices, "column %q not found", name)

	col := b.Chunk.Column(indices[0])
	values := make([]float64, 0, col.Len())
	for pos := 0; pos < col.Len(); pos++ {
		require.False(t, col.IsNull(pos))
		v, ok := arrowValue(col, pos).(float64)
		require.True(t, ok, "column %q is not numeric", name)
		values = append(values, v)
	}
	return values
}

// columnIndex resolves a table column by name.
func columnIndex(t *testing.T, table arrow.Table, name string) int {
	t.Helper()
	indices := table.Schema().FieldIndices(name)
	require.NotEmpty(t, indices, "column %q not found", name)
	return indices[0]
}

// tableCells flattens a table column into Go values, nil for nulls.
func tableCells(t *testing.T, table arrow.Table, name string) []interface{} {
	t.Helper()
	col := table.Column(columnIndex(t, table, name))

	values := make([]interface{}, 0, col.Len())
	for _, chunk := range col.Data().Chunks() {
		for pos := 0; pos < chunk.Len(); pos++ {
			if chunk.IsNull(pos) {
				values = append(values, nil)
				continue
			}
			values = append(values, arrowValue(chunk, pos))
		}
	}
	return values
}
