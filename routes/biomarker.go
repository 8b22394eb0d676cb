/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lmteixeira17/blood-exams/dashboard"
	"github.com/lmteixeira17/blood-exams/db"
)

// ViewBiomarker renders one biomarker's page: its full history chart,
// the result table, and any cached trend analysis.
func ViewBiomarker(c flamego.Context, s session.Session, ctrl *dashboard.Controller, t template.Template, data template.Data) {
	ctx := c.Request().Context()
	code := c.Param("code")

	biomarker, err := db.GetBiomarkerByCode(ctx, code)
	if err != nil {
		logger.Error("Failed to load biomarker", "code", code, "error", err)
		SetErrorFlash(s, "Biomarker not found")
		c.Redirect("/", http.StatusSeeOther)
		return
	}
	data["Biomarker"] = biomarker

	series, err := db.GetBiomarkerSeriesByCode(ctx, code)
	if err != nil {
		logger.Error("Failed to load biomarker history", "code", code, "error", err)
		SetErrorFlash(s, "Failed to load biomarker history")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	if series != nil {
		if err := ctrl.Render(dashboard.ChartDetail, dashboard.DetailData{Series: *series}); err != nil {
			logger.Error("Failed to render detail chart", "code", code, "error", err)
		} else {
			data["DetailChart"], _ = ctrl.HTML(dashboard.ChartDetail)
		}
		data["Series"] = *series
		data["HasResults"] = true
	}

	analysis, err := db.GetTrendAnalysis(ctx, code)
	if err != nil {
		logger.Error("Failed to load trend analysis", "code", code, "error", err)
	} else if analysis != nil {
		data["TrendAnalysis"] = analysis
	}

	t.HTML(http.StatusOK, "biomarker")
}

// StreamTrend streams an AI trend analysis for a biomarker as
// server-sent events, caching the full text when the stream completes.
// A current cached analysis is replayed without calling the model.
func StreamTrend(c flamego.Context) {
	ctx := c.Request().Context()
	code := c.Param("code")

	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sendChunk := func(chunk string) error {
		// SSE data lines cannot contain raw newlines.
		encoded, err := json.Marshal(chunk)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", encoded); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	sendDone := func() {
		fmt.Fprint(w, "event: done\ndata: \"\"\n\n")
		flusher.Flush()
	}

	cached, err := db.GetTrendAnalysis(ctx, code)
	if err != nil {
		logger.Error("Failed to check trend cache", "code", code, "error", err)
	}
	if cached != nil {
		if err := sendChunk(cached.Content); err == nil {
			sendDone()
		}
		return
	}

	biomarker, err := db.GetBiomarkerByCode(ctx, code)
	if err != nil {
		logger.Error("Failed to load biomarker for trend", "code", code, "error", err)
		sendDone()
		return
	}

	series, err := db.GetBiomarkerSeriesByCode(ctx, code)
	if err != nil || series == nil {
		sendDone()
		return
	}

	var full strings.Builder
	err = db.StreamTrendAnalysis(ctx, biomarker, *series, func(chunk string) error {
		full.WriteString(chunk)
		return sendChunk(chunk)
	})
	if err != nil {
		logger.Error("Trend analysis stream failed", "code", code, "error", err)
		sendDone()
		return
	}

	if full.Len() > 0 {
		count, err := db.CountResultsByBiomarker(ctx, code)
		if err == nil {
			if err := db.SaveTrendAnalysis(ctx, code, full.String(), count); err != nil {
				logger.Error("Failed to cache trend analysis", "code", code, "error", err)
			}
		}
	}

	sendDone()
}

// BiomarkerJSON returns one biomarker's raw history as JSON.
func BiomarkerJSON(c flamego.Context) {
	ctx := c.Request().Context()
	code := c.Param("code")

	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "application/json")

	biomarker, err := db.GetBiomarkerByCode(ctx, code)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "biomarker not found"})
		return
	}

	series, err := db.GetBiomarkerSeriesByCode(ctx, code)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to load history"})
		return
	}

	payload := map[string]interface{}{
		"code":     biomarker.Code,
		"name":     biomarker.Name,
		"unit":     biomarker.Unit,
		"category": biomarker.Category,
	}
	if series != nil {
		refMin := make([]*float64, series.Len())
		refMax := make([]*float64, series.Len())
		for i := range series.RefMin {
			if series.RefMin[i].Valid {
				v := series.RefMin[i].Value
				refMin[i] = &v
			}
			if series.RefMax[i].Valid {
				v := series.RefMax[i].Value
				refMax[i] = &v
			}
		}
		payload["dates"] = series.Dates
		payload["values"] = series.Values
		payload["ref_min"] = refMin
		payload["ref_max"] = refMax
		payload["abnormal"] = series.Abnormal
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode biomarker JSON", "code", code, "error", err)
	}
}
