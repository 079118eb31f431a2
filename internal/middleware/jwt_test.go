package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/auth"
	"github.com/whysoezzy/meetups_server/internal/config"
)

func setupProtectedApp(t *testing.T) (*fiber.App, *auth.TokenIssuer) {
	t.Helper()
	tokens := auth.NewTokenIssuer(config.Config{
		JWTSecret:     "test-secret",
		JWTIssuer:     "meetups-server",
		JWTAudience:   "meetups-app",
		TokenValidity: time.Hour,
	})

	app := fiber.New()
	app.Get("/me", JWTAuth(tokens), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		return c.SendString(uid)
	})
	return app, tokens
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	app, tokens := setupProtectedApp(t)

	token, err := tokens.Mint("user-42")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	app, _ := setupProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	app, _ := setupProtectedApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
