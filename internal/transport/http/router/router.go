package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	// Public
	Register(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)

	// Own profile
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)

	// Profiles by id
	GetUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)

	// Admin provisioning / listing
	CreateUser(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)

	// Moderation
	LockUser(w http.ResponseWriter, r *http.Request)
	UnlockUser(w http.ResponseWriter, r *http.Request)
	SetUserRole(w http.ResponseWriter, r *http.Request)
	SetProfessional(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Users  UserHandler

	RequestIDMW func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler
	ManagerMW   func(http.Handler) http.Handler
	AdminMW     func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ManagerMW == nil {
		return nil, fmt.Errorf("nil Manager middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/users/v1", func(r chi.Router) {
		// --- Public ---
		r.Post("/register", deps.Users.Register)
		r.Get("/verify-email/{id}/{token}", deps.Users.VerifyEmail)

		// --- Own profile ---
		r.With(deps.AuthMW).Get("/me", deps.Users.Me)
		r.With(deps.AuthMW).Patch("/me", deps.Users.UpdateMe)

		// --- Profiles by id ---
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.With(deps.AdminMW).Post("/", deps.Users.CreateUser)
			r.With(deps.AdminMW).Get("/", deps.Users.ListUsers)

			r.Get("/{id}", deps.Users.GetUser)
			r.Patch("/{id}", deps.Users.UpdateUser)
			r.Delete("/{id}", deps.Users.DeleteUser)

			// --- Moderation ---
			r.With(deps.ManagerMW).Post("/{id}/lock", deps.Users.LockUser)
			r.With(deps.ManagerMW).Post("/{id}/unlock", deps.Users.UnlockUser)
			r.With(deps.ManagerMW).Patch("/{id}/professional", deps.Users.SetProfessional)
			r.With(deps.AdminMW).Post("/{id}/role", deps.Users.SetUserRole)
		})
	})

	return r, nil
}
