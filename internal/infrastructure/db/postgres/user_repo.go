package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `id, email, password_hash, nickname, first_name, last_name, bio,
profile_picture_url, github_profile_url, linkedin_profile_url,
role, is_professional, state, verify_token, version,
created_at, updated_at, last_login_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Nickname,
		&ur.FirstName,
		&ur.LastName,
		&ur.Bio,
		&ur.ProfilePictureURL,
		&ur.GithubProfileURL,
		&ur.LinkedinProfileURL,
		&ur.Role,
		&ur.IsProfessional,
		&ur.State,
		&ur.VerifyToken,
		&ur.Version,
		&ur.CreatedAt,
		&ur.UpdatedAt,
		&ur.LastLoginAt,
		&ur.DeletedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:                 ur.ID,
		Email:              ur.Email,
		PasswordHash:       ur.PasswordHash,
		Nickname:           ur.Nickname,
		FirstName:          ur.FirstName,
		LastName:           ur.LastName,
		Bio:                ur.Bio,
		ProfilePictureURL:  ur.ProfilePictureURL,
		GithubProfileURL:   ur.GithubProfileURL,
		LinkedinProfileURL: ur.LinkedinProfileURL,
		Role:               ur.Role,
		IsProfessional:     ur.IsProfessional,
		State:              domain.State(ur.State),
		VerifyToken:        ur.VerifyToken,
		Version:            ur.Version,
		CreatedAt:          ur.CreatedAt,
		UpdatedAt:          ur.UpdatedAt,
		LastLoginAt:        ur.LastLoginAt,
		DeletedAt:          ur.DeletedAt,
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isDuplicate(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- profile.UserRepo ----------

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1 AND deleted_at IS NULL
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByIDIncludingDeleted(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}
	if u.State == "" {
		u.State = domain.StatePending
	}

	const q = `
INSERT INTO users (id, email, password_hash, nickname, first_name, last_name, bio,
                   profile_picture_url, github_profile_url, linkedin_profile_url,
                   role, is_professional, state, verify_token, version, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,1,$15,$16)
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Nickname, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.GithubProfileURL, u.LinkedinProfileURL,
		u.Role, u.IsProfessional, string(u.State), u.VerifyToken, u.CreatedAt, u.UpdatedAt,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// Save performs the optimistic-concurrency write: the row is updated only if
// its stored version still matches expectedVersion. Zero rows means someone
// else won the race; the caller re-reads and retries, and discovers a truly
// missing row on that re-read.
func (r *UserRepo) Save(ctx context.Context, u domain.User, expectedVersion int64) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	u.Email = normalizeEmail(u.Email)

	const q = `
UPDATE users
SET email = $3,
    password_hash = $4,
    nickname = $5,
    first_name = $6,
    last_name = $7,
    bio = $8,
    profile_picture_url = $9,
    github_profile_url = $10,
    linkedin_profile_url = $11,
    role = $12,
    is_professional = $13,
    state = $14,
    verify_token = $15,
    updated_at = $16,
    last_login_at = $17,
    deleted_at = $18,
    version = version + 1
WHERE id = $1 AND version = $2
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, expectedVersion,
		u.Email, u.PasswordHash, u.Nickname, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.GithubProfileURL, u.LinkedinProfileURL,
		u.Role, u.IsProfessional, string(u.State), u.VerifyToken,
		u.UpdatedAt, u.LastLoginAt, u.DeletedAt,
	))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrVersionConflict()
		}
		if isDuplicate(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	const countQ = `SELECT COUNT(1) FROM users WHERE deleted_at IS NULL;`
	var total int
	if err := r.db.QueryRowContext(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE deleted_at IS NULL
ORDER BY created_at, id
OFFSET $1 LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, 0, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	return out, total, nil
}
