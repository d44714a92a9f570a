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

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge/dataforge/forge"
)

func sampleTable() arrow.Table {
	return forge.Normalize([]forge.Batch{{Records: []forge.Record{
		{"name": "alice", "score": float64(10)},
		{"name": "bob", "score": float64(20.5)},
		{"name": "carol"},
	}}})
}

func TestToCSV(t *testing.T) {
	table := sampleTable()
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, ToCSV(table, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"name", "score"}, rows[0])
	assert.Equal(t, []string{"alice", "10"}, rows[1])
	assert.Equal(t, []string{"bob", "20.5"}, rows[2])
	// Nulls export as empty fields.
	assert.Equal(t, []string{"carol", ""}, rows[3])
}

func TestCSVRoundTrip(t *testing.T) {
	table := sampleTable()
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, ToCSV(table, &buf))

	batches := forge.Ingest(forge.SourceTabular, bytes.NewReader(buf.Bytes()), forge.DefaultConfig())
	require.NotEmpty(t, batches)
	reparsed := forge.Normalize(batches)
	defer reparsed.Release()
	for _, b := range batches {
		b.Release()
	}

	require.Equal(t, table.NumRows(), reparsed.NumRows())
	require.Equal(t, table.NumCols(), reparsed.NumCols())
	for i := 0; i < int(table.NumCols()); i++ {
		assert.Equal(t, table.Schema().Field(i).Name, reparsed.Schema().Field(i).Name)
	}

	var out bytes.Buffer
	require.NoError(t, ToCSV(reparsed, &out))
	assert.Equal(t, buf.String(), out.String())
}

func TestToJSON(t *testing.T) {
	table := sampleTable()
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, ToJSON(table, &buf))

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "alice", records[0]["name"])
	assert.Equal(t, float64(10), records[0]["score"])
	assert.Nil(t, records[2]["score"])
}

func TestParquetRoundTrip(t *testing.T) {
	table := sampleTable()
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, ToParquet(table, &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")))

	batches := forge.Ingest(forge.SourceTabular, bytes.NewReader(buf.Bytes()), forge.DefaultConfig())
	require.NotEmpty(t, batches)
	reparsed := forge.Normalize(batches)
	defer reparsed.Release()
	for _, b := range batches {
		b.Release()
	}

	require.Equal(t, table.NumRows(), reparsed.NumRows())
	require.Equal(t, table.NumCols(), reparsed.NumCols())

	var a, b bytes.Buffer
	require.NoError(t, ToCSV(table, &a))
	require.NoError(t, ToCSV(reparsed, &b))
	assert.Equal(t, a.String(), b.String())
}

func TestToCSVEmptyTable(t *testing.T) {
	table := forge.Normalize(nil)
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, ToCSV(table, &buf))
	assert.Equal(t, "\n", buf.String(), "header of zero columns")
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"csv":      FormatCSV,
		"JSON":     FormatJSON,
		" parquet": FormatParquet,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
