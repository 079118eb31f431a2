package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestMeeting(t *testing.T, svc *Service, title string) Meeting {
	t.Helper()
	m, err := svc.Create(context.Background(), Input{
		Title:       title,
		Description: "desc",
		Location:    "Berlin",
		DateTime:    time.Now().Add(24 * time.Hour).UTC(),
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	return m
}

func TestRegisterIsDuplicateRejecting(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	m := newTestMeeting(t, svc, "Go Meetup")
	userID := uuid.NewString()

	result, err := svc.Register(ctx, userID, m.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.Registered {
		t.Fatalf("expected registration to succeed: %+v", result)
	}

	again, err := svc.Register(ctx, userID, m.ID)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if again.Registered {
		t.Fatalf("expected duplicate registration to be rejected: %+v", again)
	}

	fetched, err := svc.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ParticipantsCount != 1 {
		t.Fatalf("expected 1 participant, got %d", fetched.ParticipantsCount)
	}
}

func TestUnregisterRemovesRegistration(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	m := newTestMeeting(t, svc, "Go Meetup")
	userID := uuid.NewString()

	if _, err := svc.Register(ctx, userID, m.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Unregister(ctx, userID, m.ID)
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if result.Registered {
		t.Fatalf("expected registered=false after unregister: %+v", result)
	}

	registered, err := svc.IsRegistered(ctx, userID, m.ID)
	if err != nil {
		t.Fatalf("is-registered: %v", err)
	}
	if registered {
		t.Fatal("expected no registration after unregister")
	}
}

func TestEndFlipsRegistrationsToPassed(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	m := newTestMeeting(t, svc, "Go Meetup")
	userID := uuid.NewString()

	if _, err := svc.Register(ctx, userID, m.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	planned, _ := svc.PlannedForUser(ctx, userID)
	if len(planned) != 1 {
		t.Fatalf("expected 1 planned meeting, got %d", len(planned))
	}

	if err := svc.End(ctx, m.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	planned, _ = svc.PlannedForUser(ctx, userID)
	if len(planned) != 0 {
		t.Fatalf("expected no planned meetings after end, got %d", len(planned))
	}
	passed, _ := svc.PassedForUser(ctx, userID)
	if len(passed) != 1 {
		t.Fatalf("expected 1 passed meeting after end, got %d", len(passed))
	}

	ended, _ := svc.Get(ctx, m.ID)
	if !ended.IsEnded {
		t.Fatal("expected meeting marked as ended")
	}
}

func TestListActiveExcludesEnded(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	active := newTestMeeting(t, svc, "Active")
	done := newTestMeeting(t, svc, "Done")

	if err := svc.End(ctx, done.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	meetings, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(meetings) != 1 || meetings[0].ID != active.ID {
		t.Fatalf("expected only the active meeting, got %+v", meetings)
	}
}

func TestDeleteRemovesMeetingAndRegistrations(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	m := newTestMeeting(t, svc, "Go Meetup")
	userID := uuid.NewString()

	if _, err := svc.Register(ctx, userID, m.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, m.ID); err == nil {
		t.Fatal("expected meeting to be gone")
	}
	planned, _ := svc.PlannedForUser(ctx, userID)
	if len(planned) != 0 {
		t.Fatalf("expected registrations gone with the meeting, got %d", len(planned))
	}
}

func TestRegisterUnknownMeeting(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Register(context.Background(), uuid.NewString(), uuid.NewString()); err == nil {
		t.Fatal("expected error registering for a missing meeting")
	}
}
