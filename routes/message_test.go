package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"volunteer-connect-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp creates a minimal Iris app with the message and quote routes
// and a JWT verifier
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	messages := app.Party("/api/messages")
	{
		messages.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, SendMessage)
	}
	booking := app.Party("/api/booking")
	{
		booking.Post("/quote", QuoteBookingPrice)
	}
	payment := app.Party("/api/payment")
	{
		payment.Post("/confirm", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, ConfirmPayment)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// signTestToken returns a signed JWT for the given user id
func signTestToken(id uint) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: "volunteer"})
	return string(token)
}

func TestSendMessageRequiresToken(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"receiverID":2,"body":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestSendMessageValidatesInput(t *testing.T) {
	app := buildTestApp()

	// Missing receiverID and body -> 400 before any persistence
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(1))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty input, got %d", resp.Code)
	}
}

func TestQuoteBookingPrice(t *testing.T) {
	app := buildTestApp()

	body := `{"startDate":"2024-06-01T00:00:00Z","endDate":"2024-06-05T00:00:00Z","dailyRate":"100","travellerCount":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got struct {
		DurationDays  int    `json:"durationDays"`
		TotalOwed     string `json:"totalOwed"`
		DepositAmount string `json:"depositAmount"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DurationDays != 5 {
		t.Fatalf("expected 5 days, got %d", got.DurationDays)
	}
	if got.TotalOwed != "1000" {
		t.Fatalf("expected total 1000, got %s", got.TotalOwed)
	}
	if got.DepositAmount != "200" {
		t.Fatalf("expected deposit 200, got %s", got.DepositAmount)
	}
}
