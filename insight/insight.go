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
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// DefaultDomain is the domain label applied when the caller passes none.
const DefaultDomain = "generic"

// Result is the derived aggregate of one table: the chart series of
// per-column means, the full descriptive summary, the headline metric
// (mean of the per-column means) and the number of numeric columns
// considered.
type Result struct {
	Chart          ChartConfig `json:"chart"`
	Summary        Summary     `json:"summary"`
	HeadlineMetric float64     `json:"headlineMetric"`
	NumericColumns int         `json:"numericColumns"`
}

// Generate computes the insight aggregate over a unified table.
//
// The numeric column subset is selected by the schema's type tags, in table
// column order. When no numeric column exists the result carries a blank
// chart and the headline says so; every degenerate shape yields a valid
// result rather than an error. The domain label only affects display text,
// never the computation.
func Generate(table arrow.Table, domain string) (Result, string) {
	if strings.TrimSpace(domain) == "" {
		domain = DefaultDomain
	}
	title := fmt.Sprintf("%s Insights", titleCase(domain))

	summary := Describe(table)
	if summary.IsEmpty() {
		result := Result{
			Chart:   meansChart(title, nil),
			Summary: summary,
		}
		return result, "No numeric data found"
	}

	points := make([]ChartPoint, 0, len(summary.Columns))
	sum := 0.0
	for _, col := range summary.Columns {
		if col.Count == 0 {
			continue
		}
		points = append(points, ChartPoint{Label: col.Column, Value: col.Mean})
		sum += col.Mean
	}

	// Mean of the per-column means. All-empty columns would divide by
	// zero; the headline metric defaults to 0 then.
	metric := 0.0
	if len(points) > 0 {
		metric = sum / float64(len(points))
	}

	result := Result{
		Chart:          meansChart(title, points),
		Summary:        summary,
		HeadlineMetric: metric,
		NumericColumns: len(summary.Columns),
	}
	headline := fmt.Sprintf("Key Metric: Mean Value %.2f (%d numeric columns)",
		metric, result.NumericColumns)
	return result, headline
}

// titleCase upper-cases the first letter of every space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
