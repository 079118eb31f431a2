package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/user"
)

// RegisterUserRoutes wires profile endpoints; all of them require a session.
func RegisterUserRoutes(r fiber.Router, h *user.Handler, authGuard fiber.Handler) {
	group := r.Group("/users")
	group.Get("/profile", authGuard, h.Profile)
	group.Put("/profile", authGuard, h.UpdateProfile)
	group.Delete("/", authGuard, h.Delete)
}
