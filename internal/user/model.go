package user

import "time"

// User represents a registered member looked up by phone number.
type User struct {
	ID          string
	PhoneNumber string
	Name        string
	Surname     *string
	SocialLinks map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile augments a user with activity counts derived from the
// meeting-registration and community-membership relations.
type Profile struct {
	ID                   string            `json:"id"`
	PhoneNumber          string            `json:"phoneNumber"`
	Name                 string            `json:"name"`
	Surname              *string           `json:"surname,omitempty"`
	SocialLinks          map[string]string `json:"socialLinks"`
	PlannedMeetingsCount int               `json:"plannedMeetingsCount"`
	PassedMeetingsCount  int               `json:"passedMeetingsCount"`
	CommunitiesCount     int               `json:"communitiesCount"`
}

// UpdateInput captures mutable profile fields.
type UpdateInput struct {
	Name        string
	Surname     *string
	SocialLinks map[string]string
}
