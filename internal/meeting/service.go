package meeting

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes meeting operations.
type Service struct {
	repo Repository
}

// NewService creates a new meeting service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new meeting.
func (s *Service) Create(ctx context.Context, input Input) (Meeting, error) {
	m := Meeting{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		DateTime:    input.DateTime,
		Icon:        input.Icon,
		Images:      input.Images,
		Tags:        input.Tags,
	}
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Meeting{}, err
	}
	return s.repo.Get(ctx, m.ID)
}

// Get fetches a meeting by id.
func (s *Service) Get(ctx context.Context, id string) (Meeting, error) {
	return s.repo.Get(ctx, id)
}

// GetByIDs fetches meetings by id set.
func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]Meeting, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// List returns every meeting.
func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	return s.repo.List(ctx)
}

// ListActive returns meetings not yet ended.
func (s *Service) ListActive(ctx context.Context) ([]Meeting, error) {
	return s.repo.ListActive(ctx)
}

// Update overwrites meeting fields.
func (s *Service) Update(ctx context.Context, id string, input Input) (Meeting, error) {
	return s.repo.Update(ctx, id, input)
}

// Delete removes a meeting and its registrations.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// End marks a meeting as ended; existing registrations become PASSED.
func (s *Service) End(ctx context.Context, id string) error {
	return s.repo.MarkEnded(ctx, id)
}

// Register signs the user up for a meeting.
func (s *Service) Register(ctx context.Context, userID, meetingID string) (RegistrationResult, error) {
	added, err := s.repo.Register(ctx, userID, meetingID)
	if err != nil {
		return RegistrationResult{}, err
	}
	result := RegistrationResult{MeetingID: meetingID, UserID: userID, Registered: added}
	if added {
		result.Message = "Successfully registered for meeting"
	} else {
		result.Message = "Already registered for this meeting"
	}
	return result, nil
}

// Unregister removes the user's registration.
func (s *Service) Unregister(ctx context.Context, userID, meetingID string) (RegistrationResult, error) {
	removed, err := s.repo.Unregister(ctx, userID, meetingID)
	if err != nil {
		return RegistrationResult{}, err
	}
	result := RegistrationResult{MeetingID: meetingID, UserID: userID, Registered: false}
	if removed {
		result.Message = "Successfully unregistered from meeting"
	} else {
		result.Message = "Not registered for this meeting"
	}
	return result, nil
}

// IsRegistered reports whether the user is registered for the meeting.
func (s *Service) IsRegistered(ctx context.Context, userID, meetingID string) (bool, error) {
	return s.repo.IsRegistered(ctx, userID, meetingID)
}

// PlannedForUser lists the user's upcoming registrations.
func (s *Service) PlannedForUser(ctx context.Context, userID string) ([]Meeting, error) {
	return s.repo.ListForUser(ctx, userID, StatusPlanned)
}

// PassedForUser lists the user's past registrations.
func (s *Service) PassedForUser(ctx context.Context, userID string) ([]Meeting, error) {
	return s.repo.ListForUser(ctx, userID, StatusPassed)
}
