package meeting

import "time"

// Registration statuses for the user-meeting relation.
const (
	StatusPlanned = "PLANNED"
	StatusPassed  = "PASSED"
)

// Meeting represents a scheduled event users can register for.
type Meeting struct {
	ID                string
	Title             string
	Description       string
	Location          string
	DateTime          time.Time
	IsEnded           bool
	Icon              string
	Images            []string
	Tags              []string
	ParticipantsCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Input captures the writable meeting fields.
type Input struct {
	Title       string
	Description string
	Location    string
	DateTime    time.Time
	Icon        string
	Images      []string
	Tags        []string
}

// RegistrationResult reports the outcome of a register/unregister attempt.
type RegistrationResult struct {
	MeetingID  string `json:"meetingId"`
	UserID     string `json:"userId"`
	Registered bool   `json:"registered"`
	Message    string `json:"message"`
}
