package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// UserRepo is the development and test implementation of the persistence
// port. It enforces the same contract as the postgres repository: version
// checked writes, unique live emails, soft-deleted rows invisible to the
// normal read paths.
type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID: make(map[string]domain.User),
	}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok || u.IsDeleted() {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email && !u.IsDeleted() {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByIDIncludingDeleted(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email && !existing.IsDeleted() {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}

	u.Version = 1
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) Save(ctx context.Context, u domain.User, expectedVersion int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if stored.Version != expectedVersion {
		return domain.User{}, domain.ErrVersionConflict()
	}
	for _, existing := range r.byID {
		if existing.ID != u.ID && existing.Email == u.Email && !existing.IsDeleted() {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}

	u.Version = expectedVersion + 1
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	live := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if !u.IsDeleted() {
			live = append(live, u)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if !live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].CreatedAt.Before(live[j].CreatedAt)
		}
		return live[i].ID < live[j].ID
	})

	total := len(live)
	if offset >= total {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return live[offset:end], total, nil
}
