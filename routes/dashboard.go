/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"sort"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lmteixeira17/blood-exams/dashboard"
	"github.com/lmteixeira17/blood-exams/db"
	"github.com/lmteixeira17/blood-exams/logging"
)

var logger = logging.Logger(logging.SourceWeb)

// FlashInjector exposes the previous request's flash message to
// templates.
func FlashInjector() flamego.Handler {
	return func(f session.Flash, data template.Data) {
		if msg, ok := f.(FlashMessage); ok {
			data["Flash"] = msg
		}
	}
}

// Dashboard renders the main page: the biomarker grid, the summary
// charts, and the comparison panel when one is active.
func Dashboard(c flamego.Context, s session.Session, ctrl *dashboard.Controller, t template.Template, data template.Data) {
	ctx := c.Request().Context()

	series, codes, err := db.GetBiomarkerSeries(ctx)
	if err != nil {
		logger.Error("Failed to load biomarker series", "error", err)
		SetErrorFlash(s, "Failed to load dashboard data")
		t.HTML(http.StatusInternalServerError, "dashboard")
		return
	}

	if err := ctrl.Render(dashboard.ChartGrid, dashboard.GridData{Codes: codes, Series: series}); err != nil {
		logger.Error("Failed to render dashboard grid", "error", err)
	}

	renderSummaryCharts(c, ctrl)

	data["HasResults"] = len(codes) > 0
	data["GridChart"], _ = ctrl.HTML(dashboard.ChartGrid)
	data["RadarChart"], _ = ctrl.HTML(dashboard.ChartRadar)
	data["DonutChart"], _ = ctrl.HTML(dashboard.ChartDonut)
	data["GaugeChart"], _ = ctrl.HTML(dashboard.ChartGauge)
	data["DeviationChart"], _ = ctrl.HTML(dashboard.ChartDeviation)

	if comparison, ok := ctrl.HTML(dashboard.ChartComparison); ok {
		data["ComparisonChart"] = comparison
	}

	sel := selectionFromSession(s)
	selected := make(map[string]bool, sel.Count())
	for _, code := range sel.Codes() {
		selected[code] = true
	}
	data["CompareMode"] = sel.Comparing()
	data["SelectedCodes"] = selected
	data["SelectedCount"] = sel.Count()
	data["CanCompare"] = sel.CanCompare()

	biomarkers, err := db.ListBiomarkers(ctx)
	if err != nil {
		logger.Error("Failed to list biomarkers", "error", err)
	} else {
		data["Biomarkers"] = biomarkers
	}

	if total, err := db.CountExams(ctx); err == nil {
		data["TotalExams"] = total
	}
	if exams, err := db.ListExams(ctx); err == nil && len(exams) > 0 {
		data["LatestAbnormalCount"] = exams[0].AbnormalCount
		if len(exams) > 5 {
			exams = exams[:5]
		}
		data["RecentExams"] = exams
	}

	t.HTML(http.StatusOK, "dashboard")
}

// renderSummaryCharts redraws the radar, donut, gauge and deviation
// charts from current data. Failures are logged and the affected chart
// simply stays absent from the page.
func renderSummaryCharts(c flamego.Context, ctrl *dashboard.Controller) {
	ctx := c.Request().Context()

	normal, abnormal, err := db.LatestResultCounts(ctx)
	if err != nil {
		logger.Error("Failed to count latest results", "error", err)
		return
	}
	if normal+abnormal == 0 {
		return
	}

	if err := ctrl.Render(dashboard.ChartDonut, dashboard.ResultCountsData{Normal: normal, Abnormal: abnormal}); err != nil {
		logger.Error("Failed to render result counts chart", "error", err)
	}

	score := 100 * float64(normal) / float64(normal+abnormal)
	if err := ctrl.Render(dashboard.ChartGauge, score); err != nil {
		logger.Error("Failed to render health score chart", "error", err)
	}

	scores, err := db.LatestCategoryScores(ctx)
	if err != nil {
		logger.Error("Failed to load category scores", "error", err)
	} else if len(scores) > 0 {
		radar := dashboard.CategoryHealthData{}
		for _, s := range scores {
			radar.Categories = append(radar.Categories, string(s.Category))
			radar.Scores = append(radar.Scores, s.Score)
		}
		if err := ctrl.Render(dashboard.ChartRadar, radar); err != nil {
			logger.Error("Failed to render category health chart", "error", err)
		}
	}

	series, _, err := db.GetBiomarkerSeries(ctx)
	if err != nil {
		logger.Error("Failed to load series for deviation chart", "error", err)
		return
	}
	deviation := buildDeviationData(series)
	if len(deviation.Items) > 0 {
		if err := ctrl.Render(dashboard.ChartDeviation, deviation); err != nil {
			logger.Error("Failed to render deviation chart", "error", err)
		}
	}
}

// buildDeviationData finds the biomarkers whose latest result sits
// furthest outside its reference range, worst first, capped at eight.
func buildDeviationData(series map[string]dashboard.BiomarkerSeries) dashboard.DeviationData {
	var items []dashboard.CriticalItem
	for _, s := range series {
		n := s.Len()
		if n == 0 || !s.AbnormalAt(n-1) {
			continue
		}
		pct := dashboard.DeviationPercent(s.Values[n-1], s.RefMin[n-1], s.RefMax[n-1])
		if pct == 0 {
			continue
		}
		items = append(items, dashboard.CriticalItem{
			Code:         s.Code,
			Name:         s.Name,
			Unit:         s.Unit,
			Value:        s.Values[n-1],
			DeviationPct: pct,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].DeviationPct, items[j].DeviationPct
		if a < 0 {
			a = -a
		}
		if b < 0 {
			b = -b
		}
		if a != b {
			return a > b
		}
		return items[i].Code < items[j].Code
	})

	if len(items) > 8 {
		items = items[:8]
	}

	return dashboard.DeviationData{Items: items}
}
