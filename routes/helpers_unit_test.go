// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

type testSession struct {
	id    string
	data  map[interface{}]interface{}
	flash interface{}
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

type testCSRF struct {
	token string
}

func (c testCSRF) Token() string {
	return c.token
}

func (c testCSRF) ValidToken(string) bool {
	return true
}

func (c testCSRF) Error(http.ResponseWriter) {}

func (c testCSRF) Validate(flamego.Context) {}

func TestSetFlashHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     func(session.Session, string)
		wantTyp FlashType
	}{
		{name: "error", set: SetErrorFlash, wantTyp: FlashError},
		{name: "success", set: SetSuccessFlash, wantTyp: FlashSuccess},
		{name: "info", set: SetInfoFlash, wantTyp: FlashInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			tt.set(s, "hello")

			msg, ok := s.flash.(FlashMessage)
			if !ok {
				t.Fatalf("flash has unexpected type: %T", s.flash)
			}

			if msg.Type != tt.wantTyp || msg.Message != "hello" {
				t.Fatalf("unexpected flash message: %#v", msg)
			}
		})
	}
}

func TestCSRFInjector(t *testing.T) {
	t.Parallel()

	handler, ok := CSRFInjector().(func(csrf.CSRF, template.Data))
	if !ok {
		t.Fatalf("unexpected CSRFInjector handler type")
	}

	data := template.Data{}
	handler(testCSRF{token: "csrf-123"}, data)

	if got, ok := data["csrf_token"].(string); !ok || got != "csrf-123" {
		t.Fatalf("unexpected csrf_token value: %#v", data["csrf_token"])
	}
}

func TestThemeInjector(t *testing.T) {
	t.Parallel()

	handler, ok := ThemeInjector().(func(*dashboard.Controller, template.Data))
	if !ok {
		t.Fatalf("unexpected ThemeInjector handler type")
	}

	data := template.Data{}
	handler(dashboard.NewController(dashboard.ThemeDark), data)

	if got := data["Theme"]; got != "dark" {
		t.Fatalf("unexpected Theme value: %#v", got)
	}

	if got := data["IsDarkTheme"]; got != true {
		t.Fatalf("unexpected IsDarkTheme value: %#v", got)
	}

	data = template.Data{}
	handler(dashboard.NewController(dashboard.ThemeLight), data)

	if got := data["IsDarkTheme"]; got != false {
		t.Fatalf("unexpected IsDarkTheme value: %#v", got)
	}
}

func TestFlashInjector(t *testing.T) {
	t.Parallel()

	handler, ok := FlashInjector().(func(session.Flash, template.Data))
	if !ok {
		t.Fatalf("unexpected FlashInjector handler type")
	}

	data := template.Data{}
	handler(FlashMessage{Type: FlashSuccess, Message: "saved"}, data)

	msg, ok := data["Flash"].(FlashMessage)
	if !ok || msg.Message != "saved" {
		t.Fatalf("unexpected Flash value: %#v", data["Flash"])
	}

	data = template.Data{}
	handler(nil, data)

	if _, ok := data["Flash"]; ok {
		t.Fatalf("expected no Flash entry for empty flash, got %#v", data["Flash"])
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Use(NoCacheHeaders())
	f.Get("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})
	f.Post("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})

	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getRec := httptest.NewRecorder()
	f.ServeHTTP(getRec, getReq)

	if got := getRec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control for GET: %q", got)
	}

	postReq := httptest.NewRequest(http.MethodPost, "/", nil)
	postRec := httptest.NewRecorder()
	f.ServeHTTP(postRec, postReq)

	if got := postRec.Header().Get("Cache-Control"); got != "" {
		t.Fatalf("expected no Cache-Control for POST, got %q", got)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	var got string
	f := flamego.New()
	f.Get("/", func(c flamego.Context) {
		got = clientIP(c)
	})

	withXFF := httptest.NewRequest(http.MethodGet, "/", nil)
	withXFF.Header.Set("X-Forwarded-For", " 203.0.113.4, 198.51.100.2 ")
	withXFF.RemoteAddr = "10.0.0.1:1234"
	f.ServeHTTP(httptest.NewRecorder(), withXFF)

	if got != "203.0.113.4" {
		t.Fatalf("expected X-Forwarded-For IP, got %q", got)
	}

	withRemoteAddr := httptest.NewRequest(http.MethodGet, "/", nil)
	withRemoteAddr.RemoteAddr = "192.0.2.10:8080"
	f.ServeHTTP(httptest.NewRecorder(), withRemoteAddr)

	if got != "192.0.2.10" {
		t.Fatalf("expected host from RemoteAddr, got %q", got)
	}
}

func TestParseExamDate(t *testing.T) {
	t.Parallel()

	date, err := parseExamDate(" 2024-03-01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Fatalf("parseExamDate = %v, want %v", date, want)
	}

	if _, err := parseExamDate(""); !errors.Is(err, errMissingDate) {
		t.Fatalf("expected errMissingDate, got %v", err)
	}

	if _, err := parseExamDate("01/03/2024"); !errors.Is(err, errInvalidDate) {
		t.Fatalf("expected errInvalidDate, got %v", err)
	}
}

func TestParseResultValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantSet   bool
		wantErr   error
	}{
		{name: "plain", input: "92.5", wantValue: 92.5, wantSet: true},
		{name: "trimmed", input: "  14 ", wantValue: 14, wantSet: true},
		{name: "empty means unmeasured", input: "", wantSet: false},
		{name: "blank means unmeasured", input: "   ", wantSet: false},
		{name: "garbage", input: "high", wantErr: errInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, set, err := parseResultValue(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseResultValue(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}

			if set != tt.wantSet || value != tt.wantValue {
				t.Fatalf("parseResultValue(%q) = (%v, %v), want (%v, %v)",
					tt.input, value, set, tt.wantValue, tt.wantSet)
			}
		})
	}
}
