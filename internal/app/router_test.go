package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eduexercise/internal/app/observability"
	"eduexercise/internal/bank"
)

func newTestRouter(csrf bool) http.Handler {
	cfg := Config{
		AppEnv:                "development",
		CSRFEnforced:          csrf,
		ImportRateLimitPerMin: 30,
		CORSAllowedOrigins:    []string{"*"},
	}
	svc := bank.NewService(bank.Options{})
	return NewRouter(cfg, bank.NewHandler(svc, 1), observability.NewCollector(nil, nil))
}

func TestRouterSmokeRoutes(t *testing.T) {
	router := newTestRouter(false)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "csrf", method: http.MethodGet, target: "/api/v1/csrf", wantStatus: http.StatusOK},
		{name: "template_v1", method: http.MethodGet, target: "/api/v1/questions/template", wantStatus: http.StatusOK},
		{name: "template_v2", method: http.MethodGet, target: "/api/v1/questions/template?version=2", wantStatus: http.StatusOK},
		{name: "template_unknown", method: http.MethodGet, target: "/api/v1/questions/template?version=9", wantStatus: http.StatusBadRequest},
		{name: "list_without_store", method: http.MethodGet, target: "/api/v1/questions", wantStatus: http.StatusServiceUnavailable},
		{name: "layout_invalid_body", method: http.MethodPost, target: "/api/v1/answer-sheets/layout", body: "{", wantStatus: http.StatusBadRequest},
		{name: "layout_inline", method: http.MethodPost, target: "/api/v1/answer-sheets/layout",
			body: `{"subject":"Biologi","questions":[{"order":1,"type":"Uraian","text":"Jelaskan"}]}`, wantStatus: http.StatusOK},
		{name: "pdf_without_rasterizer", method: http.MethodPost, target: "/api/v1/answer-sheets/pdf",
			body: `{"subject":"Biologi","questions":[{"order":1,"type":"Uraian","text":"Jelaskan"}]}`, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("%s %s: got status %d, want %d", tc.method, tc.target, w.Code, tc.wantStatus)
			}
		})
	}
}

func TestRouterEnforcesCSRFOnWrites(t *testing.T) {
	router := newTestRouter(true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answer-sheets/layout", strings.NewReader(`{"subject":"Biologi"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/questions/template", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("reads should not need csrf, got %d", w.Code)
	}
}
