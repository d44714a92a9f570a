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

// Package insight computes descriptive statistics and a chart-ready
// aggregate over a unified Arrow table. Only columns the normalizer tagged
// as numeric participate; everything else is ignored here but stays in the
// table.
package insight

import (
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ColumnStats holds the descriptive statistics of one numeric column.
// Count is the number of non-null values; Mean through Max are zero when
// Count is zero, and Std is zero when fewer than two values exist.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summary is the per-numeric-column descriptive summary of a table, in
// table column order.
type Summary struct {
	Columns []ColumnStats `json:"columns"`
}

// IsEmpty reports whether the summary covers no columns.
func (s Summary) IsEmpty() bool {
	return len(s.Columns) == 0
}

// Describe computes the descriptive summary over the numeric columns of a
// table. Numeric membership is decided by the column's Arrow type alone;
// values are never re-probed. A table without numeric columns yields an
// empty summary, never an error.
func Describe(table arrow.Table) Summary {
	var summary Summary
	for i := 0; i < int(table.NumCols()); i++ {
		field := table.Schema().Field(i)
		if !isNumericType(field.Type.ID()) {
			continue
		}
		values := columnValues(table.Column(i))
		summary.Columns = append(summary.Columns, describeColumn(field.Name, values))
	}
	return summary
}

// describeColumn computes stats over the non-null values of one column.
func describeColumn(name string, values []float64) ColumnStats {
	stats := ColumnStats{Column: name, Count: int64(len(values))}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats.Mean = mean(values)
	stats.Std = sampleStd(values, stats.Mean)
	stats.Min = sorted[0]
	stats.Q1 = quantile(sorted, 0.25)
	stats.Median = quantile(sorted, 0.5)
	stats.Q3 = quantile(sorted, 0.75)
	stats.Max = sorted[len(sorted)-1]
	return stats
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation. Undefined below two values;
// reported as zero so downstream rendering never sees NaN.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// quantile computes the p-quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// isNumericType reports whether an Arrow type participates in statistics.
func isNumericType(id arrow.Type) bool {
	switch id {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return true
	default:
		return false
	}
}

// columnValues collects the non-null values of a numeric column as float64,
// in row order, across all of the column's chunks.
func columnValues(col *arrow.Column) []float64 {
	values := make([]float64, 0, col.Len())
	for _, chunk := range col.Data().Chunks() {
		for pos := 0; pos < chunk.Len(); pos++ {
			if chunk.IsNull(pos) {
				continue
			}
			if v, ok := numericAt(chunk, pos); ok {
				values = append(values, v)
			}
		}
	}
	return values
}

// numericAt extracts the value at pos as float64 for any numeric Arrow type.
func numericAt(chunk arrow.Array, pos int) (float64, bool) {
	switch chunk.DataType().ID() {
	case arrow.INT8:
		return float64(chunk.(*array.Int8).Value(pos)), true
	case arrow.INT16:
		return float64(chunk.(*array.Int16).Value(pos)), true
	case arrow.INT32:
		return float64(chunk.(*array.Int32).Value(pos)), true
	case arrow.INT64:
		return float64(chunk.(*array.Int64).Value(pos)), true
	case arrow.UINT8:
		return float64(chunk.(*array.Uint8).Value(pos)), true
	case arrow.UINT16:
		return float64(chunk.(*array.Uint16).Value(pos)), true
	case arrow.UINT32:
		return float64(chunk.(*array.Uint32).Value(pos)), true
	case arrow.UINT64:
		return float64(chunk.(*array.Uint64).Value(pos)), true
	case arrow.FLOAT16:
		return float64(chunk.(*array.Float16).Value(pos).Float32()), true
	case arrow.FLOAT32:
		return float64(chunk.(*array.Float32).Value(pos)), true
	case arrow.FLOAT64:
		return chunk.(*array.Float64).Value(pos), true
	default:
		return 0, false
	}
}
