package http_handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DHJariwala/is601-user-management/internal/application/profile"
	"github.com/DHJariwala/is601-user-management/internal/domain"
	"github.com/DHJariwala/is601-user-management/internal/logger"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/dto"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/middleware"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/response"
)

type UserHandler struct {
	svc *profile.Service
}

func NewUserHandler(svc *profile.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func actorFromCtx(r *http.Request) profile.Actor {
	uid, _ := middleware.UserIDFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())
	return profile.Actor{ID: uid, Role: role}
}

// Register handles POST /register (public self-registration).
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("email", u.Email).
		Msg("user_registered")

	response.Created(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// VerifyEmail handles GET /verify-email/{id}/{token}. The link is clicked
// straight from the mail client, so no bearer token is involved.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := chi.URLParam(r, "token")

	u, err := h.svc.VerifyEmail(r.Context(), id, token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("email_verified")

	response.OK(w, dto.VerifyEmailData{Status: "verified", User: dto.UserViewFromDomain(u)})
}

// Me handles GET /me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFromCtx(r)

	u, err := h.svc.ReadProfile(r.Context(), actor, actor.ID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// UpdateMe handles PATCH /me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, actorFromCtx(r).ID)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.ReadProfile(r.Context(), actorFromCtx(r), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// UpdateUser handles PATCH /users/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, chi.URLParam(r, "id"))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, targetID string) {
	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.ApplyMutation(r.Context(), actorFromCtx(r), targetID, req.ToChanges(), domain.NoEvent)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// DeleteUser handles DELETE /users/{id} (soft delete).
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFromCtx(r)
	targetID := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), actor, targetID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("actor_id", actor.ID).
		Str("user_id", targetID).
		Msg("user_deleted")

	response.NoContent(w)
}

// CreateUser handles POST /users (admin provisioning).
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.AdminCreate(r.Context(), actorFromCtx(r), req.Email, req.Password, req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// ListUsers handles GET /users (admin listing, ?offset=&limit=).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := h.svc.List(r.Context(), actorFromCtx(r), offset, limit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	views := make([]dto.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, dto.UserViewFromDomain(u))
	}
	response.OK(w, dto.UserListData{Users: views, Total: total, Offset: offset, Limit: limit})
}

// LockUser handles POST /users/{id}/lock.
func (h *UserHandler) LockUser(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Lock, "user_locked")
}

// UnlockUser handles POST /users/{id}/unlock.
func (h *UserHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Unlock, "user_unlocked")
}

func (h *UserHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, actor profile.Actor, targetID string) (domain.User, error),
	event string,
) {
	actor := actorFromCtx(r)
	targetID := chi.URLParam(r, "id")

	u, err := op(r.Context(), actor, targetID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("actor_id", actor.ID).
		Str("user_id", targetID).
		Msg(event)

	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// SetUserRole handles POST /users/{id}/role.
func (h *UserHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req dto.SetUserRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.SetRole(r.Context(), actorFromCtx(r), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}

// SetProfessional handles PATCH /users/{id}/professional.
func (h *UserHandler) SetProfessional(w http.ResponseWriter, r *http.Request) {
	var req dto.SetProfessionalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.SetProfessionalStatus(r.Context(), actorFromCtx(r), chi.URLParam(r, "id"), *req.IsProfessional)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserData{User: dto.UserViewFromDomain(u)})
}
