// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

func newCompareTestApp(s session.Session, ctrl *dashboard.Controller) *flamego.Flame {
	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.MapTo(s, (*session.Session)(nil))
		c.Map(ctrl)
		c.Next()
	})

	f.Post("/compare/mode", ToggleCompareMode)
	f.Post("/compare/select", ToggleCompareSelection)
	f.Post("/compare/run", RunComparison)
	f.Post("/compare/close", CloseComparison)
	f.Post("/theme", ToggleTheme)

	return f
}

func performFormPOST(
	t *testing.T,
	f *flamego.Flame,
	path string,
	form url.Values,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if got := rec.Header().Get("Location"); got != wantLocation {
		t.Fatalf("expected redirect %q, got %q", wantLocation, got)
	}
}

func compareGridData() dashboard.GridData {
	return dashboard.GridData{
		Codes: []string{"glucose", "ldl"},
		Series: map[string]dashboard.BiomarkerSeries{
			"glucose": {
				Code:   "glucose",
				Name:   "Glucose",
				Unit:   "mg/dL",
				Dates:  []string{"2024-01-01", "2024-03-01"},
				Values: []float64{10, 12},
				RefMin: []dashboard.Sample{dashboard.SampleOf(5), dashboard.SampleOf(5)},
				RefMax: []dashboard.Sample{dashboard.SampleOf(15), dashboard.SampleOf(15)},
			},
			"ldl": {
				Code:   "ldl",
				Name:   "LDL Cholesterol",
				Unit:   "mg/dL",
				Dates:  []string{"2024-02-01", "2024-03-01"},
				Values: []float64{100, 110},
				RefMin: []dashboard.Sample{{}, {}},
				RefMax: []dashboard.Sample{dashboard.SampleOf(200), dashboard.SampleOf(200)},
			},
		},
	}
}

func selectCodes(t *testing.T, f *flamego.Flame, codes ...string) {
	t.Helper()

	for _, code := range codes {
		rec := performFormPOST(t, f, "/compare/select", url.Values{"code": {code}})
		assertRedirect(t, rec, "/")
	}
}

func TestToggleCompareModeRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	rec := performFormPOST(t, f, "/compare/mode", nil)
	assertRedirect(t, rec, "/")

	if got, _ := s.Get(sessionKeyCompareMode).(bool); !got {
		t.Fatal("expected compare mode to be enabled")
	}

	rec = performFormPOST(t, f, "/compare/mode", nil)
	assertRedirect(t, rec, "/")

	if got, _ := s.Get(sessionKeyCompareMode).(bool); got {
		t.Fatal("expected compare mode to be disabled")
	}

	if codes, _ := s.Get(sessionKeyCompareCodes).([]string); len(codes) != 0 {
		t.Fatalf("expected selection to be cleared, got %v", codes)
	}
}

func TestToggleCompareModeOffDisposesComparison(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	if err := ctrl.Render(dashboard.ChartGrid, compareGridData()); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}

	performFormPOST(t, f, "/compare/mode", nil)
	selectCodes(t, f, "glucose", "ldl")
	performFormPOST(t, f, "/compare/run", nil)

	if _, ok := ctrl.HTML(dashboard.ChartComparison); !ok {
		t.Fatal("expected a rendered comparison before leaving compare mode")
	}

	performFormPOST(t, f, "/compare/mode", nil)
	performFormPOST(t, f, "/compare/mode", nil)

	if _, ok := ctrl.HTML(dashboard.ChartComparison); ok {
		t.Fatal("expected comparison to be disposed when leaving compare mode")
	}
}

func TestToggleCompareSelectionIgnoredOutsideCompareMode(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	rec := performFormPOST(t, f, "/compare/select", url.Values{"code": {"glucose"}})
	assertRedirect(t, rec, "/")

	if codes, _ := s.Get(sessionKeyCompareCodes).([]string); len(codes) != 0 {
		t.Fatalf("expected no selection outside compare mode, got %v", codes)
	}
}

func TestToggleCompareSelectionPreservesOrder(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	performFormPOST(t, f, "/compare/mode", nil)
	selectCodes(t, f, "ldl", "glucose", "hdl")

	// Deselect and reselect moves the code to the end.
	selectCodes(t, f, "ldl", "ldl")

	codes, _ := s.Get(sessionKeyCompareCodes).([]string)
	want := []string{"glucose", "hdl", "ldl"}

	if len(codes) != len(want) {
		t.Fatalf("unexpected selection: %v", codes)
	}

	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("unexpected selection order: %v, want %v", codes, want)
		}
	}
}

func TestRunComparisonBelowThresholdDoesNothing(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	if err := ctrl.Render(dashboard.ChartGrid, compareGridData()); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}

	performFormPOST(t, f, "/compare/mode", nil)
	selectCodes(t, f, "glucose")

	rec := performFormPOST(t, f, "/compare/run", nil)
	assertRedirect(t, rec, "/")

	if s.flash != nil {
		t.Fatalf("expected no flash message, got %#v", s.flash)
	}

	if _, ok := ctrl.HTML(dashboard.ChartComparison); ok {
		t.Fatal("expected no comparison chart below the selection threshold")
	}

	// The selection survives so the user can pick a second biomarker.
	if got, _ := s.Get(sessionKeyCompareMode).(bool); !got {
		t.Fatal("expected compare mode to remain active")
	}
}

func TestRunComparisonRendersAndEndsSelection(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	if err := ctrl.Render(dashboard.ChartGrid, compareGridData()); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}

	performFormPOST(t, f, "/compare/mode", nil)
	selectCodes(t, f, "glucose", "ldl")

	rec := performFormPOST(t, f, "/compare/run", nil)
	assertRedirect(t, rec, "/#comparison")

	html, ok := ctrl.HTML(dashboard.ChartComparison)
	if !ok {
		t.Fatal("expected a rendered comparison chart")
	}

	if !strings.Contains(string(html), "Glucose") || !strings.Contains(string(html), "LDL Cholesterol") {
		t.Fatal("expected both series names in the comparison chart")
	}

	if got := ctrl.LiveCount(dashboard.ChartComparison); got != 1 {
		t.Fatalf("expected one live comparison instance, got %d", got)
	}

	if got, _ := s.Get(sessionKeyCompareMode).(bool); got {
		t.Fatal("expected selection mode to end after running a comparison")
	}

	if codes, _ := s.Get(sessionKeyCompareCodes).([]string); len(codes) != 0 {
		t.Fatalf("expected selection to be cleared, got %v", codes)
	}
}

func TestCloseComparison(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	if err := ctrl.Render(dashboard.ChartGrid, compareGridData()); err != nil {
		t.Fatalf("failed to render grid: %v", err)
	}

	performFormPOST(t, f, "/compare/mode", nil)
	selectCodes(t, f, "glucose", "ldl")
	performFormPOST(t, f, "/compare/run", nil)

	rec := performFormPOST(t, f, "/compare/close", nil)
	assertRedirect(t, rec, "/")

	if _, ok := ctrl.HTML(dashboard.ChartComparison); ok {
		t.Fatal("expected comparison chart to be disposed")
	}

	// Closing again is harmless.
	rec = performFormPOST(t, f, "/compare/close", nil)
	assertRedirect(t, rec, "/")
}

func TestToggleThemeWithoutDatabase(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	ctrl := dashboard.NewController(dashboard.ThemeDark)
	f := newCompareTestApp(s, ctrl)

	rec := performFormPOST(t, f, "/theme", nil)
	assertRedirect(t, rec, "/")

	msg, ok := s.flash.(FlashMessage)
	if !ok || msg.Type != FlashError {
		t.Fatalf("expected an error flash, got %#v", s.flash)
	}

	if got := ctrl.Theme(); got != dashboard.ThemeDark {
		t.Fatalf("expected theme to stay %q, got %q", dashboard.ThemeDark, got)
	}
}

func TestLocalRedirectTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "empty", target: "", want: "/"},
		{name: "root", target: "/", want: "/"},
		{name: "local path", target: "/exams", want: "/exams"},
		{name: "local path with query", target: "/biomarker/ldl?from=2024", want: "/biomarker/ldl?from=2024"},
		{name: "absolute url", target: "https://evil.example/", want: "/"},
		{name: "scheme relative", target: "//evil.example/exams", want: "/"},
		{name: "relative path", target: "exams", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := localRedirectTarget(tt.target); got != tt.want {
				t.Fatalf("localRedirectTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
