package profile

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

const (
	defaultWriteRetries = 3
	defaultReadRetries  = 2
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	pub    EventPublisher

	audit func(action string, fields map[string]string)
	now   func() time.Time

	// Retry budgets: writeRetries bounds whole-mutation retries after a
	// version conflict, readRetries bounds repeat reads after an
	// infrastructure failure.
	writeRetries int
	readRetries  int

	// URL used to build links sent via the email collaborator.
	verifyEmailBaseURL string
}

type Config struct {
	VerifyEmailBaseURL string
	WriteRetries       int
	ReadRetries        int
}

func NewService(users UserRepo, hasher PasswordHasher, pub EventPublisher, cfg Config) *Service {
	wr := cfg.WriteRetries
	if wr <= 0 {
		wr = defaultWriteRetries
	}
	rr := cfg.ReadRetries
	if rr <= 0 {
		rr = defaultReadRetries
	}
	return &Service{
		users:  users,
		hasher: hasher,
		pub:    pub,

		audit: func(string, map[string]string) {},
		now:   time.Now,

		writeRetries: wr,
		readRetries:  rr,

		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the time source; used by tests that assert on
// updated-at monotonicity.
func (s *Service) WithClock(fn func() time.Time) *Service {
	if fn != nil {
		s.now = fn
	}
	return s
}

// loadTarget reads the target account, retrying a bounded number of times
// when the repository is unavailable. Deleted accounts are invisible here.
func (s *Service) loadTarget(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	var err error
	for attempt := 0; attempt <= s.readRetries; attempt++ {
		u, err = s.users.GetByID(ctx, id)
		if err == nil || !domain.Is(err, "db_unavailable") {
			break
		}
	}
	return u, err
}

// checkEmailFree verifies no other live account owns email. Read retries
// apply as in loadTarget.
func (s *Service) checkEmailFree(ctx context.Context, email, excludeID string) error {
	var existing domain.User
	var err error
	for attempt := 0; attempt <= s.readRetries; attempt++ {
		existing, err = s.users.GetByEmail(ctx, email)
		if err == nil || !domain.Is(err, "db_unavailable") {
			break
		}
	}
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return domain.ErrEmailAlreadyExists()
	}
	return nil
}

// bumpUpdatedAt keeps updated-at monotonically non-decreasing even if the
// wall clock steps backwards.
func (s *Service) bumpUpdatedAt(u *domain.User) {
	nt := s.now()
	if nt.Before(u.UpdatedAt) {
		nt = u.UpdatedAt
	}
	u.UpdatedAt = nt
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
