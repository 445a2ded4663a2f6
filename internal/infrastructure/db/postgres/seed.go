package postgres

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers provisions well-known accounts for local development. Seeded
// accounts start active so no verification round-trip is needed.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	type seedUser struct {
		Email string
		Role  string
		Pass  string
	}

	seeds := []seedUser{
		{Email: "admin@example.com", Role: "admin", Pass: "AdminPassword123!"},
		{Email: "manager@example.com", Role: "manager", Pass: "ManagerPassword123!"},
		{Email: "user@example.com", Role: "user", Pass: "UserPassword123!"},
	}

	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Printf("[seed] hash failed (%s): %v", s.Email, err)
			continue
		}

		now := time.Now()
		u := domain.User{
			ID:           uuid.NewString(),
			Email:        s.Email,
			PasswordHash: hash,
			Role:         s.Role,
			State:        domain.StateActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err = repo.Create(ctx, u)
		if err != nil {
			// ignore duplicates (restart safe)
			continue
		}
	}

	log.Println("[seed] postgres users seeded")
}
