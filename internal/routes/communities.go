package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/community"
)

// RegisterCommunityRoutes wires community endpoints. As with meetings, static
// segments are registered ahead of ":id".
func RegisterCommunityRoutes(r fiber.Router, h *community.Handler, authGuard fiber.Handler) {
	group := r.Group("/communities")

	// Public
	group.Get("/", h.List)
	group.Get("/title/:title", h.GetByTitle)

	// Protected
	group.Get("/user", authGuard, h.ListForUser)
	group.Get("/:id/meetings", h.Meetings)
	group.Get("/:id/is-member", authGuard, h.IsMember)

	// Public by-id lookup comes after the static protected routes.
	group.Get("/:id", h.Get)

	group.Post("/", authGuard, h.Create)
	group.Put("/:id", authGuard, h.Update)
	group.Delete("/:id", authGuard, h.Delete)
	group.Post("/:id/join", authGuard, h.Join)
	group.Post("/:id/leave", authGuard, h.Leave)
	group.Post("/:communityId/meetings/:meetingId", authGuard, h.AddMeeting)
	group.Delete("/:communityId/meetings/:meetingId", authGuard, h.RemoveMeeting)
}
