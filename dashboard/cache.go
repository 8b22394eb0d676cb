/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// ChartKind identifies one chart-producing surface of the dashboard.
// The render cache keys the last data handed to each surface by kind.
type ChartKind string

// Chart kinds, in the order the theme-change path re-renders them.
const (
	ChartGrid       ChartKind = "dashboard_grid"
	ChartRadar      ChartKind = "category_health"
	ChartDonut      ChartKind = "result_counts"
	ChartGauge      ChartKind = "health_score"
	ChartDeviation  ChartKind = "critical_deviation"
	ChartDetail     ChartKind = "biomarker_detail"
	ChartComparison ChartKind = "comparison"
)

var allChartKinds = []ChartKind{
	ChartGrid,
	ChartRadar,
	ChartDonut,
	ChartGauge,
	ChartDeviation,
	ChartDetail,
	ChartComparison,
}

// GridData is the dashboard data set: every biomarker series keyed by
// code, plus the display order. This entry doubles as the source the
// alignment engine reads selected series from.
type GridData struct {
	Codes  []string
	Series map[string]BiomarkerSeries
}

// CategoryHealthData feeds the category radar: one 0-100 score per
// biomarker category (share of in-range results).
type CategoryHealthData struct {
	Categories []string
	Scores     []float64
}

// ResultCountsData feeds the normal/abnormal donut and the health
// score gauge.
type ResultCountsData struct {
	Normal   int
	Abnormal int
}

// CriticalItem is one out-of-range biomarker with its deviation from
// the nearest reference bound, in percent of that bound.
type CriticalItem struct {
	Code         string
	Name         string
	Unit         string
	Value        float64
	DeviationPct float64
}

// DeviationData feeds the critical-biomarker deviation bars.
type DeviationData struct {
	Items []CriticalItem
}

// DetailData feeds the single-biomarker detail chart.
type DetailData struct {
	Series BiomarkerSeries
}

// ComparisonData holds the selection snapshot a comparison was built
// from. Only the codes are cached: every (re-)render goes back through
// the alignment engine so stale aligned data is never reused.
type ComparisonData struct {
	Codes []string
}

// RenderCache maps chart kinds to the last data passed to their
// renderer. Populated on first render, overwritten on every subsequent
// render, read by the theme-change re-render path.
type RenderCache struct {
	entries map[ChartKind]interface{}
}

// NewRenderCache returns an empty cache.
func NewRenderCache() *RenderCache {
	return &RenderCache{entries: make(map[ChartKind]interface{})}
}

// Record stores the data last rendered for a kind.
func (c *RenderCache) Record(kind ChartKind, data interface{}) {
	c.entries[kind] = data
}

// Lookup returns the cached data for a kind.
func (c *RenderCache) Lookup(kind ChartKind) (interface{}, bool) {
	data, ok := c.entries[kind]
	return data, ok
}

// Clear drops the cached entry for a kind.
func (c *RenderCache) Clear(kind ChartKind) {
	delete(c.entries, kind)
}

// Kinds returns the populated kinds in re-render order.
func (c *RenderCache) Kinds() []ChartKind {
	var kinds []ChartKind
	for _, kind := range allChartKinds {
		if _, ok := c.entries[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
