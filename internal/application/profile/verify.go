package profile

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// VerifyEmail consumes the single-use verification token: the account moves
// pending_verification -> active and the token is cleared. Possession of the
// token is the proof of identity here; no access token is required.
func (s *Service) VerifyEmail(ctx context.Context, userID, token string) (domain.User, error) {
	const action = "profile.verify_email"

	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)

	audit := func(result string, err error) {
		fields := map[string]string{
			"target_id": userID,
			"result":    result,
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(action, fields)
	}

	if userID == "" {
		err := domain.ErrMissingField("user_id")
		audit("error", err)
		return domain.User{}, err
	}
	if token == "" {
		err := domain.ErrMissingField("token")
		audit("error", err)
		return domain.User{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= s.writeRetries; attempt++ {
		u, err := s.loadTarget(ctx, userID)
		if err != nil {
			audit("error", err)
			return domain.User{}, err
		}

		next, err := domain.Transition(u.State, domain.EventVerify)
		if err != nil {
			audit("error", err)
			return domain.User{}, err
		}

		if u.VerifyToken == "" ||
			subtle.ConstantTimeCompare([]byte(u.VerifyToken), []byte(token)) != 1 {
			err := domain.ErrVerifyTokenInvalid()
			audit("error", err)
			return domain.User{}, err
		}

		updated := u
		updated.State = next
		updated.VerifyToken = ""
		s.bumpUpdatedAt(&updated)

		saved, err := s.users.Save(ctx, updated, u.Version)
		if err != nil {
			if domain.Is(err, "version_conflict") {
				lastErr = err
				continue
			}
			audit("error", err)
			return domain.User{}, err
		}

		s.notifyChanged(ctx, saved, []string{"state"})
		audit("success", nil)
		return saved.Redacted(), nil
	}

	audit("error", lastErr)
	return domain.User{}, lastErr
}
