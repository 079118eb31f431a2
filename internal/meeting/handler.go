package meeting

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes meeting HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a meeting HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type meetingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	DateTime    string   `json:"dateTime"`
	Icon        string   `json:"icon"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
}

type meetingResponse struct {
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

func (req meetingRequest) toInput() (Input, error) {
	dt, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		DateTime:    dt,
		Icon:        req.Icon,
		Images:      req.Images,
		Tags:        req.Tags,
	}, nil
}

func toResponse(m Meeting) meetingResponse {
	return meetingResponse{
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
	}
}

func toResponses(meetings []Meeting) []meetingResponse {
	out := make([]meetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, toResponse(m))
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

// List returns all meetings.
func (h *Handler) List(c *fiber.Ctx) error {
	meetings, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(meetings))
}

// Active returns meetings that have not ended.
func (h *Handler) Active(c *fiber.Ctx) error {
	meetings, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(meetings))
}

// Get returns a single meeting.
func (h *Handler) Get(c *fiber.Ctx) error {
	m, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "meeting not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(m))
}

// Create stores a new meeting.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req meetingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toInput()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid dateTime, expected RFC 3339")
	}
	m, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(m))
}

// Update overwrites meeting fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req meetingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toInput()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid dateTime, expected RFC 3339")
	}
	m, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "meeting not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(m))
}

// Delete removes a meeting.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "meeting not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// End marks a meeting as ended.
func (h *Handler) End(c *fiber.Ctx) error {
	if err := h.service.End(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Failed to mark meeting as ended"})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Meeting marked as ended"})
}

// Register signs the authenticated user up for the meeting.
func (h *Handler) Register(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Register(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "meeting not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(result)
}

// Unregister removes the authenticated user's registration.
func (h *Handler) Unregister(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Unregister(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(result)
}

// IsRegistered reports the authenticated user's registration state.
func (h *Handler) IsRegistered(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	registered, err := h.service.IsRegistered(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"isRegistered": registered})
}

// UserPlanned lists the authenticated user's upcoming meetings.
func (h *Handler) UserPlanned(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	meetings, err := h.service.PlannedForUser(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(meetings))
}

// UserPassed lists the authenticated user's past meetings.
func (h *Handler) UserPassed(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	meetings, err := h.service.PassedForUser(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(meetings))
}
