package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupAuthApp(t *testing.T) (*fiber.App, *captureSender) {
	t.Helper()
	sender := newCaptureSender()
	svc, _, _ := newTestService(sender)
	h := NewHandler(svc)

	app := fiber.New()
	app.Post("/auth/request-otp", h.RequestOTP)
	app.Post("/auth/verify-otp", h.VerifyOTP)
	return app, sender
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, payload
}

func TestRequestOTPEndpoint(t *testing.T) {
	app, sender := setupAuthApp(t)

	status, payload := postJSON(t, app, "/auth/request-otp", `{"phoneNumber":"+15551230000"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, payload)
	}
	var body map[string]string
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "OTP sent successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}
	if sender.lastCode("+15551230000") == "" {
		t.Fatal("expected a code handed to the delivery transport")
	}
}

func TestRequestOTPRequiresPhoneNumber(t *testing.T) {
	app, _ := setupAuthApp(t)

	status, _ := postJSON(t, app, "/auth/request-otp", `{}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestVerifyOTPEndpoint(t *testing.T) {
	app, sender := setupAuthApp(t)

	postJSON(t, app, "/auth/request-otp", `{"phoneNumber":"+15551230000"}`)
	code := sender.lastCode("+15551230000")

	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	status, _ := postJSON(t, app, "/auth/verify-otp",
		fmt.Sprintf(`{"phoneNumber":"+15551230000","otpCode":%q}`, wrong))
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong code, got %d", status)
	}

	status, payload := postJSON(t, app, "/auth/verify-otp",
		fmt.Sprintf(`{"phoneNumber":"+15551230000","otpCode":%q}`, code))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, payload)
	}

	var session struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
		User   struct {
			PhoneNumber string `json:"phoneNumber"`
			Name        string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(payload, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.UserID == "" {
		t.Fatalf("incomplete session response: %s", payload)
	}
	if session.User.PhoneNumber != "+15551230000" || session.User.Name != "User" {
		t.Fatalf("unexpected profile: %+v", session.User)
	}

	// Replaying a consumed code is rejected.
	status, _ = postJSON(t, app, "/auth/verify-otp",
		fmt.Sprintf(`{"phoneNumber":"+15551230000","otpCode":%q}`, code))
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 on replay, got %d", status)
	}
}
