package community

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals a missing community row.
var ErrNotFound = errors.New("community not found")

// Repository persists communities, their members and their meeting links.
type Repository interface {
	Create(ctx context.Context, c Community) error
	Get(ctx context.Context, id string) (Community, error)
	GetByTitle(ctx context.Context, title string) (Community, error)
	List(ctx context.Context) ([]Community, error)
	Update(ctx context.Context, id string, input Input) (Community, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, communityID, userID string) (bool, error)
	RemoveMember(ctx context.Context, communityID, userID string) (bool, error)
	IsMember(ctx context.Context, communityID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]Community, error)
	AddMeeting(ctx context.Context, communityID, meetingID string) (bool, error)
	RemoveMeeting(ctx context.Context, communityID, meetingID string) (bool, error)
	MeetingIDs(ctx context.Context, communityID string) ([]string, error)
}

const communityColumns = `c.id, c.title, c.description, c.avatar,
    (SELECT COUNT(*) FROM community_members cm WHERE cm.community_id = c.id),
    (SELECT COUNT(*) FROM community_meetings cg WHERE cg.community_id = c.id),
    c.created_at, c.updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed community repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a community record.
func (r *PostgresRepository) Create(ctx context.Context, c Community) error {
	communityID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx, `INSERT INTO communities (id, title, description, avatar, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, communityID, c.Title, c.Description, c.Avatar, now, now)
	return err
}

// Get fetches one community with member and meeting counts.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Community, error) {
	communityID, err := uuid.Parse(id)
	if err != nil {
		return Community{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities c WHERE c.id = $1`, communityID)
	return scanCommunity(row)
}

// GetByTitle fetches a community by its exact title.
func (r *PostgresRepository) GetByTitle(ctx context.Context, title string) (Community, error) {
	row := r.db.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities c WHERE c.title = $1`, title)
	return scanCommunity(row)
}

// List returns all communities ordered by title.
func (r *PostgresRepository) List(ctx context.Context) ([]Community, error) {
	rows, err := r.db.Query(ctx, `SELECT `+communityColumns+` FROM communities c ORDER BY c.title ASC`)
	if err != nil {
		return nil, err
	}
	return collectCommunities(rows)
}

// Update overwrites the writable fields and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, input Input) (Community, error) {
	communityID, err := uuid.Parse(id)
	if err != nil {
		return Community{}, ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE communities SET title = $1, description = $2, avatar = $3, updated_at = $4
        WHERE id = $5`, input.Title, input.Description, input.Avatar, time.Now().UTC(), communityID)
	if err != nil {
		return Community{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Community{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the community and its relation rows.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	communityID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM community_members WHERE community_id = $1`, communityID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM community_meetings WHERE community_id = $1`, communityID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM communities WHERE id = $1`, communityID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// AddMember joins the user to the community unless already a member.
func (r *PostgresRepository) AddMember(ctx context.Context, communityID, userID string) (bool, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return false, ErrNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	cmd, err := r.db.Exec(ctx, `INSERT INTO community_members (community_id, user_id, joined_at)
        VALUES ($1, $2, $3) ON CONFLICT (community_id, user_id) DO NOTHING`, cid, uid, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// RemoveMember removes the membership, reporting whether one existed.
func (r *PostgresRepository) RemoveMember(ctx context.Context, communityID, userID string) (bool, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return false, ErrNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`, cid, uid)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// IsMember reports whether the user belongs to the community.
func (r *PostgresRepository) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return false, nil
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	var count int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM community_members WHERE community_id = $1 AND user_id = $2`, cid, uid)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns the communities the user belongs to.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]Community, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+communityColumns+` FROM communities c
        JOIN community_members cm ON cm.community_id = c.id WHERE cm.user_id = $1 ORDER BY c.title ASC`, uid)
	if err != nil {
		return nil, err
	}
	return collectCommunities(rows)
}

// AddMeeting links a meeting to the community unless already linked.
func (r *PostgresRepository) AddMeeting(ctx context.Context, communityID, meetingID string) (bool, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return false, ErrNotFound
	}
	mid, err := uuid.Parse(meetingID)
	if err != nil {
		return false, err
	}
	cmd, err := r.db.Exec(ctx, `INSERT INTO community_meetings (community_id, meeting_id, added_at)
        VALUES ($1, $2, $3) ON CONFLICT (community_id, meeting_id) DO NOTHING`, cid, mid, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// RemoveMeeting unlinks a meeting from the community.
func (r *PostgresRepository) RemoveMeeting(ctx context.Context, communityID, meetingID string) (bool, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return false, ErrNotFound
	}
	mid, err := uuid.Parse(meetingID)
	if err != nil {
		return false, err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM community_meetings WHERE community_id = $1 AND meeting_id = $2`, cid, mid)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// MeetingIDs returns the ids of meetings linked to the community.
func (r *PostgresRepository) MeetingIDs(ctx context.Context, communityID string) ([]string, error) {
	cid, err := uuid.Parse(communityID)
	if err != nil {
		return []string{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT meeting_id FROM community_meetings WHERE community_id = $1`, cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func scanCommunity(row pgx.Row) (Community, error) {
	var (
		id uuid.UUID
		c  Community
	)
	if err := row.Scan(&id, &c.Title, &c.Description, &c.Avatar, &c.MemberCount, &c.MeetingsCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Community{}, ErrNotFound
		}
		return Community{}, err
	}
	c.ID = id.String()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func collectCommunities(rows pgx.Rows) ([]Community, error) {
	defer rows.Close()
	communities := []Community{}
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	return communities, rows.Err()
}
