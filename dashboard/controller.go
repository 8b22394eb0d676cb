/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

import (
	"html/template"
	"sync"
)

// Controller owns every chart on the dashboard: the active theme, the
// cache of last-rendered input data, the rendered HTML fragments and a
// count of live chart instances per slot. Every render disposes the
// slot's previous instance before building the new one, so a slot never
// holds more than one instance no matter how many times it is redrawn.
// Safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	theme Theme
	cache *RenderCache
	html  map[ChartKind]template.HTML
	live  map[ChartKind]int
}

func NewController(theme Theme) *Controller {
	return &Controller{
		theme: theme,
		cache: NewRenderCache(),
		html:  make(map[ChartKind]template.HTML),
		live:  make(map[ChartKind]int),
	}
}

// Theme returns the active theme.
func (c *Controller) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// ThemeConfig returns the palette for the active theme.
func (c *Controller) ThemeConfig() ThemeConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ResolveTheme(c.theme)
}

// Render draws a chart slot from fresh data, replacing whatever
// instance the slot held, and records the data so a later theme change
// can redraw it.
func (c *Controller) Render(kind ChartKind, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.renderLocked(kind, data); err != nil {
		return err
	}
	c.cache.Record(kind, data)
	return nil
}

// RenderComparison draws the comparison chart for the given selection.
// With fewer than two codes, or before the dashboard grid has been
// rendered, it does nothing: these are transient states the next
// selection change resolves, not faults.
func (c *Controller) RenderComparison(codes []string) error {
	if len(codes) < MinCompareSeries {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache.Lookup(ChartGrid); !ok {
		return nil
	}
	data := ComparisonData{Codes: append([]string(nil), codes...)}
	if err := c.renderLocked(ChartComparison, data); err != nil {
		return err
	}
	c.cache.Record(ChartComparison, data)
	return nil
}

// DisposeComparison tears down the comparison chart and forgets its
// cached selection. Calling it with no comparison rendered is a no-op.
func (c *Controller) DisposeComparison() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposeLocked(ChartComparison)
	c.cache.Clear(ChartComparison)
}

// SetTheme switches the active theme and redraws every cached chart
// under the new palette, reusing each slot's recorded data.
func (c *Controller) SetTheme(t Theme) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == c.theme {
		return nil
	}
	c.theme = t
	for _, kind := range c.cache.Kinds() {
		data, ok := c.cache.Lookup(kind)
		if !ok {
			continue
		}
		if err := c.renderLocked(kind, data); err != nil {
			return err
		}
	}
	return nil
}

// HTML returns the last rendered fragment for a slot.
func (c *Controller) HTML(kind ChartKind) (template.HTML, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.html[kind]
	return h, ok
}

// LiveCount reports how many chart instances a slot currently holds.
func (c *Controller) LiveCount(kind ChartKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live[kind]
}

// TotalLive reports the live instance count across all slots.
func (c *Controller) TotalLive() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.live {
		total += n
	}
	return total
}

func (c *Controller) disposeLocked(kind ChartKind) {
	delete(c.live, kind)
	delete(c.html, kind)
}

func (c *Controller) renderLocked(kind ChartKind, data interface{}) error {
	c.disposeLocked(kind)

	cfg := ResolveTheme(c.theme)
	switch kind {
	case ChartGrid:
		d, ok := data.(GridData)
		if !ok {
			return ErrChartData
		}
		var combined template.HTML
		count := 0
		for _, code := range d.Codes {
			s, ok := d.Series[code]
			if !ok {
				continue
			}
			h, err := chartHTML(BuildGridChart(cfg, s))
			if err != nil {
				return err
			}
			combined += h
			count++
		}
		c.html[kind] = combined
		c.live[kind] = count
	case ChartRadar:
		d, ok := data.(CategoryHealthData)
		if !ok {
			return ErrChartData
		}
		return c.storeLocked(kind, BuildCategoryHealthChart(cfg, d))
	case ChartDonut:
		d, ok := data.(ResultCountsData)
		if !ok {
			return ErrChartData
		}
		return c.storeLocked(kind, BuildResultCountsChart(cfg, d))
	case ChartGauge:
		d, ok := data.(float64)
		if !ok {
			return ErrChartData
		}
		return c.storeLocked(kind, BuildHealthScoreChart(cfg, d))
	case ChartDeviation:
		d, ok := data.(DeviationData)
		if !ok {
			return ErrChartData
		}
		return c.storeLocked(kind, BuildDeviationChart(cfg, d))
	case ChartDetail:
		d, ok := data.(DetailData)
		if !ok {
			return ErrChartData
		}
		return c.storeLocked(kind, BuildDetailChart(cfg, d))
	case ChartComparison:
		d, ok := data.(ComparisonData)
		if !ok {
			return ErrChartData
		}
		gridData, ok := c.cache.Lookup(ChartGrid)
		if !ok {
			return nil
		}
		grid, ok := gridData.(GridData)
		if !ok {
			return ErrChartData
		}
		// Codes the grid has no series for were skipped during
		// alignment; the chart renders with whatever remains.
		aligned := Align(d.Codes, grid.Series)
		mode := ResolveRenderMode(d.Codes)
		return c.storeLocked(kind, BuildComparisonChart(cfg, aligned, mode))
	default:
		return ErrUnknownChart
	}
	return nil
}

func (c *Controller) storeLocked(kind ChartKind, r chartRenderer) error {
	h, err := chartHTML(r)
	if err != nil {
		return err
	}
	c.html[kind] = h
	c.live[kind] = 1
	return nil
}
