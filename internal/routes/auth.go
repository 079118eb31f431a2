package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/auth"
)

// RegisterAuthRoutes wires the OTP authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler) {
	group := r.Group("/auth")
	group.Post("/request-otp", h.RequestOTP)
	group.Post("/verify-otp", h.VerifyOTP)
}
