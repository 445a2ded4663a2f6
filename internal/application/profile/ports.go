package profile

import (
	"context"
	"time"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

/*
UserRepo
--------
Persistence port for accounts.
Only describes WHAT the profile service needs, not HOW it's stored.

Read methods exclude soft-deleted rows; GetByIDIncludingDeleted exists for
audit tooling only. Save must reject writes whose expectedVersion no longer
matches the stored row (domain.ErrVersionConflict) so the service can retry
its read-modify-write cycle.
*/
type UserRepo interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Save(ctx context.Context, u domain.User, expectedVersion int64) (domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2. Which algorithm is used is the collaborator's
choice; the core only needs the two operations.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenClaims / TokenSigner
-------------------------
Contract with the authentication collaborator. The HTTP middleware verifies
access tokens and hands the service an already-authenticated actor; the core
never issues tokens itself.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Notification port. Delivery guarantees belong to the messaging collaborator;
the service publishes best-effort and never blocks a mutation on it.
*/
type EventPublisher interface {
	PublishProfileChanged(ctx context.Context, evt ProfileChangedEvent) error
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
}

// ProfileChangedEvent is emitted after a successful mutation that changed
// the account's state or role.
type ProfileChangedEvent struct {
	AccountID     string   `json:"account_id"`
	ChangedFields []string `json:"changed_fields"`
	NewState      string   `json:"new_state"`
}

// VerifyEmailEvent asks the email collaborator to deliver a verification
// link. The consumer does not need to understand the token inside the URL.
type VerifyEmailEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}

// Actor is the authenticated identity making a request.
type Actor struct {
	ID   string
	Role string
}
