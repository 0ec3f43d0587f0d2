package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hygio/internal/logs"
)

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	// клиентский id прокидывается как есть
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-id-1")
	h.ServeHTTP(rec, req)
	if seen != "client-id-1" || rec.Header().Get("X-Request-Id") != "client-id-1" {
		t.Fatalf("ctx=%q header=%q", seen, rec.Header().Get("X-Request-Id"))
	}

	// без заголовка — генерируется свой
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "client-id-1" {
		t.Fatalf("generated id = %q", seen)
	}

	// неправдоподобно длинный id заменяется своим
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 65))
	h.ServeHTTP(rec, req)
	if strings.Contains(seen, "xxx") {
		t.Fatalf("oversized id accepted: %q", seen)
	}
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	logs.Init(logs.Options{Level: "error"})
	h := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type = %q", ct)
	}
}
