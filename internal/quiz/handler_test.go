package quiz

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerRejectsMissingAuthContext(t *testing.T) {
	h := NewHandler(nil)

	tests := []struct {
		name    string
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{"next", http.MethodGet, "/api/v1/quiz/abc/next", h.Next},
		{"submit", http.MethodPost, "/api/v1/quiz/abc/submit", h.Submit},
		{"stats", http.MethodGet, "/api/v1/quiz/stats", h.Stats},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()
		tt.handler(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", tt.name, rr.Code, http.StatusUnauthorized)
		}
	}
}
