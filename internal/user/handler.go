package user

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes user profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type updateRequest struct {
	Name        string            `json:"name"`
	Surname     *string           `json:"surname"`
	SocialLinks map[string]string `json:"socialLinks"`
}

type userResponse struct {
	ID          string            `json:"id"`
	PhoneNumber string            `json:"phoneNumber"`
	Name        string            `json:"name"`
	Surname     *string           `json:"surname,omitempty"`
	SocialLinks map[string]string `json:"socialLinks"`
}

func toResponse(u User) userResponse {
	links := u.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return userResponse{ID: u.ID, PhoneNumber: u.PhoneNumber, Name: u.Name, Surname: u.Surname, SocialLinks: links}
}

// Profile returns the authenticated user's profile projection.
func (h *Handler) Profile(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	profile, err := h.service.Profile(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(profile)
}

// UpdateProfile overwrites the authenticated user's mutable fields.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.service.Update(c.UserContext(), uid, UpdateInput{Name: req.Name, Surname: req.Surname, SocialLinks: req.SocialLinks})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(updated))
}

// Delete removes the authenticated user's account.
func (h *Handler) Delete(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Delete(c.UserContext(), uid); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
