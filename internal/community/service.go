package community

import (
	"context"

	"github.com/google/uuid"

	"github.com/whysoezzy/meetups_server/internal/meeting"
)

// Service exposes community operations. Meeting lookups go through the
// meeting service so each repository owns only its own tables.
type Service struct {
	repo     Repository
	meetings *meeting.Service
}

// NewService creates a new community service.
func NewService(repo Repository, meetings *meeting.Service) *Service {
	return &Service{repo: repo, meetings: meetings}
}

// Create stores a new community.
func (s *Service) Create(ctx context.Context, input Input) (Community, error) {
	c := Community{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Avatar:      input.Avatar,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Community{}, err
	}
	return s.repo.Get(ctx, c.ID)
}

// Get fetches a community by id.
func (s *Service) Get(ctx context.Context, id string) (Community, error) {
	return s.repo.Get(ctx, id)
}

// GetByTitle fetches a community by exact title.
func (s *Service) GetByTitle(ctx context.Context, title string) (Community, error) {
	return s.repo.GetByTitle(ctx, title)
}

// List returns every community.
func (s *Service) List(ctx context.Context) ([]Community, error) {
	return s.repo.List(ctx)
}

// Update overwrites community fields.
func (s *Service) Update(ctx context.Context, id string, input Input) (Community, error) {
	return s.repo.Update(ctx, id, input)
}

// Delete removes a community with its membership and meeting links.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Join adds the user as a member.
func (s *Service) Join(ctx context.Context, communityID, userID string) (MembershipResult, error) {
	added, err := s.repo.AddMember(ctx, communityID, userID)
	if err != nil {
		return MembershipResult{}, err
	}
	result := MembershipResult{CommunityID: communityID, UserID: userID, IsMember: true}
	if added {
		result.Message = "Successfully joined community"
	} else {
		result.Message = "Already a member of this community"
	}
	return result, nil
}

// Leave removes the user's membership.
func (s *Service) Leave(ctx context.Context, communityID, userID string) (MembershipResult, error) {
	removed, err := s.repo.RemoveMember(ctx, communityID, userID)
	if err != nil {
		return MembershipResult{}, err
	}
	result := MembershipResult{CommunityID: communityID, UserID: userID, IsMember: false}
	if removed {
		result.Message = "Successfully left community"
	} else {
		result.Message = "Not a member of this community"
	}
	return result, nil
}

// IsMember reports whether the user belongs to the community.
func (s *Service) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	return s.repo.IsMember(ctx, communityID, userID)
}

// ListForUser returns the communities the user belongs to.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Community, error) {
	return s.repo.ListForUser(ctx, userID)
}

// AddMeeting links a meeting to the community. Returns false when the link
// already exists.
func (s *Service) AddMeeting(ctx context.Context, communityID, meetingID string) (bool, error) {
	if _, err := s.meetings.Get(ctx, meetingID); err != nil {
		return false, err
	}
	return s.repo.AddMeeting(ctx, communityID, meetingID)
}

// RemoveMeeting unlinks a meeting from the community.
func (s *Service) RemoveMeeting(ctx context.Context, communityID, meetingID string) (bool, error) {
	return s.repo.RemoveMeeting(ctx, communityID, meetingID)
}

// Meetings returns the meetings linked to the community.
func (s *Service) Meetings(ctx context.Context, communityID string) ([]meeting.Meeting, error) {
	ids, err := s.repo.MeetingIDs(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return s.meetings.GetByIDs(ctx, ids)
}
