// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

func trendFixture() (*Biomarker, dashboard.BiomarkerSeries) {
	biomarker := &Biomarker{Code: "glucose", Name: "Glucose fasting FBS", Unit: "mg/dL"}
	series := dashboard.BiomarkerSeries{
		Code:     "glucose",
		Name:     "Glucose fasting FBS",
		Unit:     "mg/dL",
		Dates:    []string{"2024-01-01", "2024-03-01"},
		Values:   []float64{85, 112},
		RefMin:   []dashboard.Sample{dashboard.SampleOf(70), dashboard.SampleOf(70)},
		RefMax:   []dashboard.Sample{dashboard.SampleOf(100), dashboard.SampleOf(100)},
		Abnormal: []bool{false, true},
	}
	return biomarker, series
}

func TestBuildTrendPrompt(t *testing.T) {
	t.Parallel()

	biomarker, series := trendFixture()

	prompt := buildTrendPrompt(biomarker, series)
	if !strings.Contains(prompt, "Glucose fasting FBS") {
		t.Fatalf("prompt missing biomarker name:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[ABNORMAL]") {
		t.Fatalf("prompt missing abnormal marker:\n%s", prompt)
	}
	if !strings.Contains(prompt, "(Reference: 70.00 - 100.00)") {
		t.Fatalf("prompt missing reference range:\n%s", prompt)
	}
}

func TestStreamTrendAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Stable \"}}]}\n"))
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"trend\"}}]}\n"))
		_, _ = w.Write([]byte("data: [DONE]\n"))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_URL", server.URL)
	t.Setenv("OLLAMA_MODEL", "test-model")

	biomarker, series := trendFixture()

	var streamed string
	err := StreamTrendAnalysis(context.Background(), biomarker, series, func(chunk string) error {
		streamed += chunk
		return nil
	})
	if err != nil {
		t.Fatalf("StreamTrendAnalysis failed: %v", err)
	}
	if streamed != "Stable trend" {
		t.Fatalf("expected streamed output, got %q", streamed)
	}
}

func TestGetOllamaConfigIncomplete(t *testing.T) {
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("OLLAMA_MODEL", "")

	if _, err := GetOllamaConfig(); err == nil {
		t.Fatal("expected error for missing configuration")
	}
}
