package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// Register creates an account in pending_verification with a fresh
// single-use verification token and asks the email collaborator to deliver
// the link. Self-registration always yields the plain user role.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	return s.register(ctx, email, password, string(domain.RoleUser), "self")
}

// AdminCreate is the privileged creation path: an admin provisions an
// account with an assigned role. The account still starts unverified.
func (s *Service) AdminCreate(ctx context.Context, actor Actor, email, password, role string) (domain.User, error) {
	if actor.Role != string(domain.RoleAdmin) {
		err := domain.ErrInsufficientRole(string(domain.RoleAdmin))
		s.audit("profile.admin_create", map[string]string{
			"actor_id": actor.ID, "actor_role": actor.Role, "result": "error", "error_code": domainCode(err),
		})
		return domain.User{}, err
	}
	if role == "" {
		role = string(domain.RoleUser)
	}
	return s.register(ctx, email, password, role, actor.ID)
}

func (s *Service) register(ctx context.Context, email, password, role, createdBy string) (domain.User, error) {
	const action = "profile.register"

	email = normalizeEmail(email)

	audit := func(result string, err error, userID string) {
		fields := map[string]string{
			"email":      email,
			"created_by": createdBy,
			"result":     result,
		}
		if userID != "" {
			fields["user_id"] = userID
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(action, fields)
	}

	if err := domain.ValidateEmail(email); err != nil {
		audit("error", err, "")
		return domain.User{}, err
	}
	if password == "" {
		err := domain.ErrMissingField("password")
		audit("error", err, "")
		return domain.User{}, err
	}
	if !domain.IsValidRole(role) {
		err := domain.ErrInvalidRole(role)
		audit("error", err, "")
		return domain.User{}, err
	}

	if err := s.checkEmailFree(ctx, email, ""); err != nil {
		audit("error", err, "")
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		audit("error", err, "")
		return domain.User{}, err
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		err := domain.ErrRandomFailed(err)
		audit("error", err, "")
		return domain.User{}, err
	}

	now := s.now()
	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		State:        domain.StatePending,
		VerifyToken:  token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		audit("error", err, "")
		return domain.User{}, err
	}

	// Best effort: registration succeeds even if the broker is down; the
	// verification email can be re-requested later.
	if s.pub != nil {
		evt := VerifyEmailEvent{
			UserID: created.ID,
			Email:  created.Email,
			URL:    s.verifyEmailBaseURL + created.ID + "/" + token,
		}
		if perr := s.pub.PublishVerifyEmail(ctx, evt); perr != nil {
			s.audit("profile.verify_email_event", map[string]string{
				"user_id":    created.ID,
				"result":     "publish_failed",
				"error_code": domainCode(perr),
			})
		}
	}

	audit("success", nil, created.ID)
	return created.Redacted(), nil
}
