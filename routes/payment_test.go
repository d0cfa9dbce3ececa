package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfirmPaymentRequiresToken(t *testing.T) {
	app := buildTestApp()

	// An anonymous confirmation must never reach the ledger.
	req := httptest.NewRequest(http.MethodPost, "/api/payment/confirm",
		strings.NewReader(`{"intentID":"intent-1","outcome":"succeeded"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}
