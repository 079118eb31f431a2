package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/whysoezzy/meetups_server/internal/sms"
	"github.com/whysoezzy/meetups_server/internal/user"
)

// ErrInvalidCode is the single failure surfaced for a wrong, absent or
// already-consumed code. Collapsing the cases avoids leaking whether a
// challenge was ever issued for the number.
var ErrInvalidCode = errors.New("invalid otp code")

// Service orchestrates the phone authentication flow: challenge issuance with
// SMS delivery, single-use verification, lazy user provisioning and token
// minting.
type Service struct {
	store  ChallengeStore
	users  *user.Service
	tokens *TokenIssuer
	sender sms.Sender
}

// NewService wires the auth orchestrator.
func NewService(store ChallengeStore, users *user.Service, tokens *TokenIssuer, sender sms.Sender) *Service {
	return &Service{store: store, users: users, tokens: tokens, sender: sender}
}

// SessionResult is the outcome of a completed challenge.
type SessionResult struct {
	Token   string
	UserID  string
	Profile user.Profile
}

// RequestChallenge issues a fresh OTP for the phone number and hands it to
// the delivery transport. On delivery failure the challenge stays issued, so
// a manual retry with the same code remains possible.
func (s *Service) RequestChallenge(ctx context.Context, phoneNumber string) error {
	code, err := s.store.Issue(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("issue challenge: %w", err)
	}
	if err := s.sender.Send(ctx, phoneNumber, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// CompleteChallenge consumes the outstanding OTP, resolving or provisioning
// the user and minting a session credential. The challenge is gone once this
// returns successfully; replaying the same code fails.
func (s *Service) CompleteChallenge(ctx context.Context, phoneNumber, code string) (SessionResult, error) {
	ok, err := s.store.Verify(ctx, phoneNumber, code)
	if err != nil {
		return SessionResult{}, fmt.Errorf("verify challenge: %w", err)
	}
	if !ok {
		return SessionResult{}, ErrInvalidCode
	}

	u, err := s.users.ResolveByPhone(ctx, phoneNumber)
	if err != nil {
		return SessionResult{}, fmt.Errorf("resolve user: %w", err)
	}

	token, err := s.tokens.Mint(u.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("mint token: %w", err)
	}

	profile, err := s.users.Profile(ctx, u.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("load profile: %w", err)
	}

	return SessionResult{Token: token, UserID: u.ID, Profile: profile}, nil
}
