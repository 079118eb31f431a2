package community

import "time"

// Community represents an interest group that hosts meetings.
type Community struct {
	ID            string
	Title         string
	Description   string
	Avatar        string
	MemberCount   int
	MeetingsCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Input captures the writable community fields.
type Input struct {
	Title       string
	Description string
	Avatar      string
}

// MembershipResult reports the outcome of a join/leave attempt.
type MembershipResult struct {
	CommunityID string `json:"communityId"`
	UserID      string `json:"userId"`
	IsMember    bool   `json:"isMember"`
	Message     string `json:"message"`
}
