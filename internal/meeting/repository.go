package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals a missing meeting row.
var ErrNotFound = errors.New("meeting not found")

// Repository persists meetings and user registrations.
type Repository interface {
	Create(ctx context.Context, m Meeting) error
	Get(ctx context.Context, id string) (Meeting, error)
	GetByIDs(ctx context.Context, ids []string) ([]Meeting, error)
	List(ctx context.Context) ([]Meeting, error)
	ListActive(ctx context.Context) ([]Meeting, error)
	Update(ctx context.Context, id string, input Input) (Meeting, error)
	Delete(ctx context.Context, id string) error
	MarkEnded(ctx context.Context, id string) error
	Register(ctx context.Context, userID, meetingID string) (bool, error)
	Unregister(ctx context.Context, userID, meetingID string) (bool, error)
	IsRegistered(ctx context.Context, userID, meetingID string) (bool, error)
	ListForUser(ctx context.Context, userID, status string) ([]Meeting, error)
}

const meetingColumns = `m.id, m.title, m.description, m.location, m.date_time, m.is_ended, m.icon, m.images, m.tags,
    (SELECT COUNT(*) FROM user_meetings um WHERE um.meeting_id = m.id), m.created_at, m.updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed meeting repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a meeting record.
func (r *PostgresRepository) Create(ctx context.Context, m Meeting) error {
	meetingID, err := uuid.Parse(m.ID)
	if err != nil {
		return err
	}
	images, err := encodeList(m.Images)
	if err != nil {
		return err
	}
	tags, err := encodeList(m.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx, `INSERT INTO meetings (id, title, description, location, date_time, is_ended, icon, images, tags, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		meetingID, m.Title, m.Description, m.Location, m.DateTime.UTC(), false, m.Icon, images, tags, now, now)
	return err
}

// Get fetches one meeting with its participant count.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Meeting, error) {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return Meeting{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = $1`, meetingID)
	return scanMeeting(row)
}

// GetByIDs fetches the meetings whose ids are in the given set.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]Meeting, error) {
	if len(ids) == 0 {
		return []Meeting{}, nil
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		parsed = append(parsed, u)
	}
	rows, err := r.db.Query(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = ANY($1)`, parsed)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

// List returns all meetings, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Meeting, error) {
	rows, err := r.db.Query(ctx, `SELECT `+meetingColumns+` FROM meetings m ORDER BY m.date_time DESC`)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

// ListActive returns meetings not yet ended, soonest first.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Meeting, error) {
	rows, err := r.db.Query(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.is_ended = FALSE ORDER BY m.date_time ASC`)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

// Update overwrites the writable fields and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, input Input) (Meeting, error) {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return Meeting{}, ErrNotFound
	}
	images, err := encodeList(input.Images)
	if err != nil {
		return Meeting{}, err
	}
	tags, err := encodeList(input.Tags)
	if err != nil {
		return Meeting{}, err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE meetings SET title = $1, description = $2, location = $3, date_time = $4,
        icon = $5, images = $6, tags = $7, updated_at = $8 WHERE id = $9`,
		input.Title, input.Description, input.Location, input.DateTime.UTC(), input.Icon, images, tags, time.Now().UTC(), meetingID)
	if err != nil {
		return Meeting{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Meeting{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the meeting and its relation rows.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_meetings WHERE meeting_id = $1`, meetingID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM community_meetings WHERE meeting_id = $1`, meetingID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, meetingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// MarkEnded flags the meeting as ended and flips its registrations to PASSED.
func (r *PostgresRepository) MarkEnded(ctx context.Context, id string) error {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE meetings SET is_ended = TRUE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), meetingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `UPDATE user_meetings SET status = $1 WHERE meeting_id = $2`, StatusPassed, meetingID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Register adds a PLANNED registration unless one already exists.
func (r *PostgresRepository) Register(ctx context.Context, userID, meetingID string) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	mid, err := uuid.Parse(meetingID)
	if err != nil {
		return false, ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `INSERT INTO user_meetings (user_id, meeting_id, status, registered_at)
        VALUES ($1, $2, $3, $4) ON CONFLICT (user_id, meeting_id) DO NOTHING`,
		uid, mid, StatusPlanned, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Unregister removes the registration, reporting whether one existed.
func (r *PostgresRepository) Unregister(ctx context.Context, userID, meetingID string) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	mid, err := uuid.Parse(meetingID)
	if err != nil {
		return false, ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM user_meetings WHERE user_id = $1 AND meeting_id = $2`, uid, mid)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// IsRegistered reports whether the user holds a registration for the meeting.
func (r *PostgresRepository) IsRegistered(ctx context.Context, userID, meetingID string) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	mid, err := uuid.Parse(meetingID)
	if err != nil {
		return false, nil
	}
	var count int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_meetings WHERE user_id = $1 AND meeting_id = $2`, uid, mid)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns the user's registered meetings, optionally filtered by
// registration status.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID, status string) ([]Meeting, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + meetingColumns + ` FROM meetings m
        JOIN user_meetings um ON um.meeting_id = m.id WHERE um.user_id = $1`
	args := []any{uid}
	if status != "" {
		query += ` AND um.status = $2`
		args = append(args, status)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectMeetings(rows)
}

func scanMeeting(row pgx.Row) (Meeting, error) {
	var (
		id           uuid.UUID
		images, tags string
		m            Meeting
	)
	if err := row.Scan(&id, &m.Title, &m.Description, &m.Location, &m.DateTime, &m.IsEnded, &m.Icon,
		&images, &tags, &m.ParticipantsCount, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meeting{}, ErrNotFound
		}
		return Meeting{}, err
	}
	m.ID = id.String()
	m.DateTime = m.DateTime.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	var err error
	if m.Images, err = decodeList(images); err != nil {
		return Meeting{}, err
	}
	if m.Tags, err = decodeList(tags); err != nil {
		return Meeting{}, err
	}
	return m, nil
}

func collectMeetings(rows pgx.Rows) ([]Meeting, error) {
	defer rows.Close()
	meetings := []Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
