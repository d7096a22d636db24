package practice

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
		{"random", http.MethodGet, "/api/v1/student/questions/random", h.RandomQuestion},
		{"adaptive", http.MethodGet, "/api/v1/student/adaptive/next", h.AdaptiveNext},
		{"stats", http.MethodGet, "/api/v1/student/stats", h.Stats},
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
