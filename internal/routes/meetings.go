package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/meeting"
)

// RegisterMeetingRoutes wires meeting endpoints. Static segments are
// registered before ":id" so /meetings/active and /meetings/user/* are not
// swallowed by the parameter route.
func RegisterMeetingRoutes(r fiber.Router, h *meeting.Handler, authGuard fiber.Handler) {
	group := r.Group("/meetings")

	// Public
	group.Get("/", h.List)
	group.Get("/active", h.Active)

	// Protected
	group.Get("/user/planned", authGuard, h.UserPlanned)
	group.Get("/user/passed", authGuard, h.UserPassed)
	group.Get("/:id/is-registered", authGuard, h.IsRegistered)

	// Public by-id lookup comes after the static protected routes.
	group.Get("/:id", h.Get)

	group.Post("/", authGuard, h.Create)
	group.Put("/:id", authGuard, h.Update)
	group.Delete("/:id", authGuard, h.Delete)
	group.Post("/:id/register", authGuard, h.Register)
	group.Post("/:id/unregister", authGuard, h.Unregister)
	group.Post("/:id/end", authGuard, h.End)
}
