package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals a missing user row.
	ErrNotFound = errors.New("user not found")
	// ErrPhoneTaken signals a phone-number uniqueness violation on insert.
	ErrPhoneTaken = errors.New("phone number already registered")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
	Update(ctx context.Context, id string, input UpdateInput) (User, error)
	Delete(ctx context.Context, id string) error
	ProfileByID(ctx context.Context, id string) (Profile, error)
}

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. A phone-number collision maps to ErrPhoneTaken so
// callers can recover by re-fetching the existing row.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	links, err := encodeLinks(user.SocialLinks)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, phone_number, name, surname, social_links, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, userID, user.PhoneNumber, user.Name, user.Surname, links, now, now)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrPhoneTaken
	}
	return err
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, phone_number, name, surname, social_links, created_at, updated_at
        FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// FindByPhone fetches a user by phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, phone_number, name, surname, social_links, created_at, updated_at
        FROM users WHERE phone_number = $1`, phone)
	return scanUser(row)
}

// Update overwrites mutable profile fields and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	links, err := encodeLinks(input.SocialLinks)
	if err != nil {
		return User{}, err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET name = $1, surname = $2, social_links = $3, updated_at = $4
        WHERE id = $5`, input.Name, input.Surname, links, time.Now().UTC(), userID)
	if err != nil {
		return User{}, err
	}
	if cmd.RowsAffected() == 0 {
		return User{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user and its relation rows.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_meetings WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM community_members WHERE user_id = $1`, userID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// ProfileByID projects a user together with meeting and community counts.
func (r *PostgresRepository) ProfileByID(ctx context.Context, id string) (Profile, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	userID, _ := uuid.Parse(id)

	var planned, passed, communities int
	row := r.db.QueryRow(ctx, `SELECT
        (SELECT COUNT(*) FROM user_meetings WHERE user_id = $1 AND status = 'PLANNED'),
        (SELECT COUNT(*) FROM user_meetings WHERE user_id = $1 AND status = 'PASSED'),
        (SELECT COUNT(*) FROM community_members WHERE user_id = $1)`, userID)
	if err := row.Scan(&planned, &passed, &communities); err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:                   u.ID,
		PhoneNumber:          u.PhoneNumber,
		Name:                 u.Name,
		Surname:              u.Surname,
		SocialLinks:          u.SocialLinks,
		PlannedMeetingsCount: planned,
		PassedMeetingsCount:  passed,
		CommunitiesCount:     communities,
	}, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id    uuid.UUID
		links *string
		u     User
	)
	if err := row.Scan(&id, &u.PhoneNumber, &u.Name, &u.Surname, &links, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = id.String()
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	u.SocialLinks = map[string]string{}
	if links != nil && *links != "" {
		if err := json.Unmarshal([]byte(*links), &u.SocialLinks); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

func encodeLinks(links map[string]string) (*string, error) {
	if links == nil {
		return nil, nil
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}
