package domain

import "time"

// User is the canonical account record.
//
// Invariants maintained by the profile service:
//   - Email is unique (case-insensitive) across all non-deleted accounts.
//   - VerifyToken is non-empty if and only if State == StatePending.
//   - UpdatedAt never decreases.
//   - A deleted account keeps its row (soft delete) and never reappears on
//     normal read paths.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	Nickname           string
	FirstName          string
	LastName           string
	Bio                string
	ProfilePictureURL  string
	GithubProfileURL   string
	LinkedinProfileURL string

	Role           string
	IsProfessional bool

	State       State
	VerifyToken string

	// Version backs the optimistic read-modify-write cycle. The repository
	// bumps it on every successful Save.
	Version int64

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
	DeletedAt   *time.Time
}

func (u User) IsDeleted() bool {
	return u.State == StateDeleted
}

// Redacted strips fields that must never leave the core: the password hash
// and the single-use verification token.
func (u User) Redacted() User {
	u.PasswordHash = ""
	u.VerifyToken = ""
	return u
}
