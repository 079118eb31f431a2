package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/user"
)

// Handler exposes the OTP authentication endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type requestOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTPCode     string `json:"otpCode"`
}

type sessionResponse struct {
	Token  string       `json:"token"`
	UserID string       `json:"userId"`
	User   user.Profile `json:"user"`
}

// RequestOTP issues a challenge for the phone number and triggers delivery.
func (h *Handler) RequestOTP(c *fiber.Ctx) error {
	var req requestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.PhoneNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "phoneNumber is required")
	}
	if err := h.svc.RequestChallenge(c.UserContext(), req.PhoneNumber); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send OTP"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent successfully"})
}

// VerifyOTP consumes the challenge and returns a session token plus the user
// profile.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.CompleteChallenge(c.UserContext(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid OTP code"})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Token: result.Token, UserID: result.UserID, User: result.Profile})
}
