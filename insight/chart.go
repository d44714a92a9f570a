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

// ChartConfig defines how a renderer should draw the insight chart. The
// core never renders anything itself; this is the render-ready contract
// handed to the presentation layer.
type ChartConfig struct {
	ChartType string        `json:"chartType"`
	Title     string        `json:"title"`
	XAxis     string        `json:"xAxis,omitempty"`
	YAxis     string        `json:"yAxis,omitempty"`
	Series    []ChartSeries `json:"series"`
}

// ChartSeries is one data series in a chart.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartPoint is a single labeled data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// IsEmpty reports whether the chart carries no drawable points.
func (c ChartConfig) IsEmpty() bool {
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

// meansChart builds the bar chart of per-column means. Columns without any
// values carry no mean and contribute no bar. An empty points slice still
// produces a valid, renderable (blank) chart.
func meansChart(title string, points []ChartPoint) ChartConfig {
	cfg := ChartConfig{
		ChartType: "bar",
		Title:     title,
		XAxis:     "column",
		YAxis:     "mean",
	}
	if len(points) > 0 {
		cfg.Series = []ChartSeries{{Name: "mean", Data: points}}
	}
	return cfg
}
