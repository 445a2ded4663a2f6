package profile

import (
	"context"
	"strings"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// ReadProfile returns the target record with the same field-visibility rules
// the mutation path uses. Deleted accounts are not found.
func (s *Service) ReadProfile(ctx context.Context, actor Actor, targetID string) (domain.User, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	if err := domain.AuthorizeRead(actor.Role, actor.ID, targetID); err != nil {
		return domain.User{}, err
	}

	u, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}
	return u.Redacted(), nil
}

// List pages through live accounts, admin only.
func (s *Service) List(ctx context.Context, actor Actor, offset, limit int) ([]domain.User, int, error) {
	if actor.Role != string(domain.RoleAdmin) {
		return nil, 0, domain.ErrInsufficientRole(string(domain.RoleAdmin))
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	return out, total, nil
}

// AuditRead exposes deleted records to admin audit tooling. This is the only
// read path that can see a soft-deleted account.
func (s *Service) AuditRead(ctx context.Context, actor Actor, targetID string) (domain.User, error) {
	if actor.Role != string(domain.RoleAdmin) {
		return domain.User{}, domain.ErrInsufficientRole(string(domain.RoleAdmin))
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}
	u, err := s.users.GetByIDIncludingDeleted(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}
	return u.Redacted(), nil
}
