package sms

import (
	"context"
	"log/slog"
)

// Sender delivers one-time codes to phone numbers. Delivery is best effort:
// a failure never touches the challenge already issued for the number.
type Sender interface {
	Send(ctx context.Context, phoneNumber, code string) error
}

// LogSender is the development implementation: it writes the code to the
// structured logger instead of calling an SMS provider. A real provider
// connector (Twilio, MessageBird, ...) would implement Sender the same way.
type LogSender struct {
	logger  *slog.Logger
	enabled bool
}

// NewLogSender constructs a logging sender. When enabled is false the sender
// reports success without attempting delivery, which keeps local flows usable.
func NewLogSender(logger *slog.Logger, enabled bool) *LogSender {
	return &LogSender{logger: logger, enabled: enabled}
}

// Send logs the outgoing code.
func (s *LogSender) Send(_ context.Context, phoneNumber, code string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	if !s.enabled {
		s.logger.Info("sms disabled, skipping delivery", "phone", phoneNumber, "code", code)
		return nil
	}
	s.logger.Info("sending otp", "phone", phoneNumber, "code", code)
	return nil
}
