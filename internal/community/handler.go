package community

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whysoezzy/meetups_server/internal/meeting"
)

// Handler exposes community HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a community HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type communityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

type communityResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Avatar        string `json:"avatar"`
	MemberCount   int    `json:"memberCount"`
	MeetingsCount int    `json:"meetingsCount"`
}

type linkedMeetingResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	DateTime          string   `json:"dateTime"`
	IsEnded           bool     `json:"isEnded"`
	Icon              string   `json:"icon"`
	Images            []string `json:"images"`
	Tags              []string `json:"tags"`
	ParticipantsCount int      `json:"participantsCount"`
}

func toResponse(c Community) communityResponse {
	return communityResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Avatar:        c.Avatar,
		MemberCount:   c.MemberCount,
		MeetingsCount: c.MeetingsCount,
	}
}

func toResponses(communities []Community) []communityResponse {
	out := make([]communityResponse, 0, len(communities))
	for _, c := range communities {
		out = append(out, toResponse(c))
	}
	return out
}

func toMeetingResponses(meetings []meeting.Meeting) []linkedMeetingResponse {
	out := make([]linkedMeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, linkedMeetingResponse{
			ID:                m.ID,
			Title:             m.Title,
			Description:       m.Description,
			Location:          m.Location,
			DateTime:          m.DateTime.Format(time.RFC3339),
			IsEnded:           m.IsEnded,
			Icon:              m.Icon,
			Images:            m.Images,
			Tags:              m.Tags,
			ParticipantsCount: m.ParticipantsCount,
		})
	}
	return out
}

func currentUserID(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return "", fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return uid, nil
}

// List returns all communities.
func (h *Handler) List(c *fiber.Ctx) error {
	communities, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(communities))
}

// Get returns a single community.
func (h *Handler) Get(c *fiber.Ctx) error {
	comm, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "community not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(comm))
}

// GetByTitle returns a community looked up by exact title.
func (h *Handler) GetByTitle(c *fiber.Ctx) error {
	comm, err := h.service.GetByTitle(c.UserContext(), c.Params("title"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "community not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(comm))
}

// Meetings lists the meetings linked to the community.
func (h *Handler) Meetings(c *fiber.Ctx) error {
	meetings, err := h.service.Meetings(c.UserContext(), c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toMeetingResponses(meetings))
}

// Create stores a new community.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req communityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	comm, err := h.service.Create(c.UserContext(), Input{Title: req.Title, Description: req.Description, Avatar: req.Avatar})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(comm))
}

// Update overwrites community fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req communityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	comm, err := h.service.Update(c.UserContext(), c.Params("id"), Input{Title: req.Title, Description: req.Description, Avatar: req.Avatar})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "community not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(comm))
}

// Delete removes a community.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "community not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Join adds the authenticated user to the community.
func (h *Handler) Join(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Join(c.UserContext(), c.Params("id"), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "community not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(result)
}

// Leave removes the authenticated user from the community.
func (h *Handler) Leave(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Leave(c.UserContext(), c.Params("id"), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(result)
}

// IsMember reports the authenticated user's membership state.
func (h *Handler) IsMember(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	member, err := h.service.IsMember(c.UserContext(), c.Params("id"), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"isMember": member})
}

// ListForUser returns the authenticated user's communities.
func (h *Handler) ListForUser(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	communities, err := h.service.ListForUser(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(communities))
}

// AddMeeting links a meeting to the community.
func (h *Handler) AddMeeting(c *fiber.Ctx) error {
	added, err := h.service.AddMeeting(c.UserContext(), c.Params("communityId"), c.Params("meetingId"))
	if err != nil || !added {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Failed to add meeting to community"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Meeting added to community"})
}

// RemoveMeeting unlinks a meeting from the community.
func (h *Handler) RemoveMeeting(c *fiber.Ctx) error {
	removed, err := h.service.RemoveMeeting(c.UserContext(), c.Params("communityId"), c.Params("meetingId"))
	if err != nil || !removed {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Failed to remove meeting from community"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Meeting removed from community"})
}
