// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"strings"
	"testing"
)

func renderFullDashboard(t *testing.T, ctrl *Controller) {
	t.Helper()

	data := seriesFixture()
	if err := ctrl.Render(ChartGrid, GridData{Codes: []string{"glucose", "ldl"}, Series: data}); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}
	if err := ctrl.Render(ChartRadar, CategoryHealthData{Categories: []string{"Metabolic", "Lipids"}, Scores: []float64{80, 65}}); err != nil {
		t.Fatalf("failed to render radar: %v", err)
	}
	if err := ctrl.Render(ChartDonut, ResultCountsData{Normal: 8, Abnormal: 2}); err != nil {
		t.Fatalf("failed to render donut: %v", err)
	}
	if err := ctrl.Render(ChartGauge, 72.5); err != nil {
		t.Fatalf("failed to render gauge: %v", err)
	}
	if err := ctrl.Render(ChartDeviation, DeviationData{Items: []CriticalItem{
		{Code: "ldl", Name: "LDL Cholesterol", Unit: "mg/dL", Value: 240, DeviationPct: 20},
	}}); err != nil {
		t.Fatalf("failed to render deviation chart: %v", err)
	}
}

func TestControllerThemeTogglesLeaveOneInstancePerSlot(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	renderFullDashboard(t, ctrl)
	if err := ctrl.RenderComparison([]string{"glucose", "ldl"}); err != nil {
		t.Fatalf("failed to render comparison: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := ctrl.SetTheme(ctrl.Theme().Toggle()); err != nil {
			t.Fatalf("theme toggle %d failed: %v", i, err)
		}
	}

	for _, kind := range []ChartKind{ChartRadar, ChartDonut, ChartGauge, ChartDeviation, ChartComparison} {
		if got := ctrl.LiveCount(kind); got != 1 {
			t.Fatalf("slot %s holds %d instances after theme toggles, want 1", kind, got)
		}
	}
	// The grid holds one instance per tile, never more.
	if got := ctrl.LiveCount(ChartGrid); got != 2 {
		t.Fatalf("grid holds %d instances, want 2", got)
	}
}

func TestControllerThemeChangeRedrawsFromCache(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	renderFullDashboard(t, ctrl)

	before, ok := ctrl.HTML(ChartDonut)
	if !ok {
		t.Fatal("donut not rendered")
	}

	if err := ctrl.SetTheme(ThemeLight); err != nil {
		t.Fatalf("theme change failed: %v", err)
	}

	after, ok := ctrl.HTML(ChartDonut)
	if !ok {
		t.Fatal("donut lost after theme change")
	}
	if before == after {
		t.Fatal("theme change should rebuild the chart, not reuse its markup")
	}
}

func TestControllerComparisonRequiresTwoCodes(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	renderFullDashboard(t, ctrl)

	if err := ctrl.RenderComparison([]string{"glucose"}); err != nil {
		t.Fatalf("short selection should be a silent no-op, got %v", err)
	}
	if _, ok := ctrl.HTML(ChartComparison); ok {
		t.Fatal("no comparison chart should exist for a single code")
	}
	if ctrl.LiveCount(ChartComparison) != 0 {
		t.Fatal("short selection leaked a chart instance")
	}
}

func TestControllerComparisonBeforeGridIsNoop(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)

	if err := ctrl.RenderComparison([]string{"glucose", "ldl"}); err != nil {
		t.Fatalf("comparison without dashboard data should be a silent no-op, got %v", err)
	}
	if _, ok := ctrl.HTML(ChartComparison); ok {
		t.Fatal("comparison rendered without source data")
	}
}

func TestControllerComparisonRendersRemainderWhenCodesLackSeries(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)

	data := seriesFixture()
	delete(data, "ldl")
	if err := ctrl.Render(ChartGrid, GridData{Codes: []string{"glucose"}, Series: data}); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}

	// "ldl" has no cached series; it drops out during alignment and the
	// chart renders with what is left.
	if err := ctrl.RenderComparison([]string{"glucose", "ldl"}); err != nil {
		t.Fatalf("failed to render comparison: %v", err)
	}

	html, ok := ctrl.HTML(ChartComparison)
	if !ok {
		t.Fatal("expected a comparison chart built from the remaining series")
	}
	if !strings.Contains(string(html), "Glucose") {
		t.Fatal("expected the remaining series in the comparison chart")
	}
	if got := ctrl.LiveCount(ChartComparison); got != 1 {
		t.Fatalf("comparison slot holds %d instances, want 1", got)
	}
}

func TestControllerDisposeComparison(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	renderFullDashboard(t, ctrl)
	if err := ctrl.RenderComparison([]string{"glucose", "ldl"}); err != nil {
		t.Fatalf("failed to render comparison: %v", err)
	}

	ctrl.DisposeComparison()
	if ctrl.LiveCount(ChartComparison) != 0 {
		t.Fatal("dispose left a live comparison instance")
	}
	if _, ok := ctrl.HTML(ChartComparison); ok {
		t.Fatal("dispose left comparison markup behind")
	}

	// A later theme change must not resurrect the cleared entry.
	if err := ctrl.SetTheme(ThemeLight); err != nil {
		t.Fatalf("theme change failed: %v", err)
	}
	if _, ok := ctrl.HTML(ChartComparison); ok {
		t.Fatal("cleared comparison came back on theme change")
	}

	// Disposing again is harmless.
	ctrl.DisposeComparison()
}

func TestControllerComparisonRealignsOnRerender(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	renderFullDashboard(t, ctrl)
	if err := ctrl.RenderComparison([]string{"glucose", "ldl"}); err != nil {
		t.Fatalf("failed to render comparison: %v", err)
	}

	// New dashboard data lands; the cached comparison re-aligns from it
	// on the next theme-driven re-render instead of reusing stale rows.
	data := seriesFixture()
	glucose := data["glucose"]
	glucose.Dates = append(glucose.Dates, "2024-04-01")
	glucose.Values = append(glucose.Values, 14)
	glucose.RefMin = append(glucose.RefMin, SampleOf(5))
	glucose.RefMax = append(glucose.RefMax, SampleOf(15))
	data["glucose"] = glucose
	if err := ctrl.Render(ChartGrid, GridData{Codes: []string{"glucose", "ldl"}, Series: data}); err != nil {
		t.Fatalf("failed to re-render grid: %v", err)
	}

	if err := ctrl.SetTheme(ThemeLight); err != nil {
		t.Fatalf("theme change failed: %v", err)
	}

	html, ok := ctrl.HTML(ChartComparison)
	if !ok {
		t.Fatal("comparison missing after re-render")
	}
	if !strings.Contains(string(html), "01/04/24") {
		t.Fatal("re-rendered comparison did not pick up the new date axis")
	}
}

func TestControllerRejectsMismatchedData(t *testing.T) {
	t.Parallel()

	ctrl := NewController(ThemeDark)
	if err := ctrl.Render(ChartDonut, "not donut data"); err != ErrChartData {
		t.Fatalf("expected ErrChartData, got %v", err)
	}
	if err := ctrl.Render(ChartKind("bogus"), nil); err != ErrUnknownChart {
		t.Fatalf("expected ErrUnknownChart, got %v", err)
	}
}
