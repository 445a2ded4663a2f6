package dto

import (
	"time"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// UserView is the standard account payload. Password hashes and verification
// tokens never appear here; the application layer already redacts them, the
// view simply has no fields to carry them.
type UserView struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Nickname           string     `json:"nickname,omitempty"`
	FirstName          string     `json:"first_name,omitempty"`
	LastName           string     `json:"last_name,omitempty"`
	Bio                string     `json:"bio,omitempty"`
	ProfilePictureURL  string     `json:"profile_picture_url,omitempty"`
	GithubProfileURL   string     `json:"github_profile_url,omitempty"`
	LinkedinProfileURL string     `json:"linkedin_profile_url,omitempty"`
	Role               string     `json:"role"`
	IsProfessional     bool       `json:"is_professional"`
	State              string     `json:"state"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

func UserViewFromDomain(u domain.User) UserView {
	return UserView{
		ID:                 u.ID,
		Email:              u.Email,
		Nickname:           u.Nickname,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		GithubProfileURL:   u.GithubProfileURL,
		LinkedinProfileURL: u.LinkedinProfileURL,
		Role:               u.Role,
		IsProfessional:     u.IsProfessional,
		State:              string(u.State),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		LastLoginAt:        u.LastLoginAt,
		DeletedAt:          u.DeletedAt,
	}
}

// UserData wraps a single account payload.
type UserData struct {
	User UserView `json:"user"`
}

// UserListData is the admin listing payload.
type UserListData struct {
	Users  []UserView `json:"users"`
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
}

// VerifyEmailData is returned after a successful verification.
type VerifyEmailData struct {
	Status string   `json:"status"` // "verified"
	User   UserView `json:"user"`
}
