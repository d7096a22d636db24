package rewards

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBalanceRejectsMissingAuthContext(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards/balance", nil)
	rr := httptest.NewRecorder()
	h.Balance(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
