package dto

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// validatePasswordStrength checks that a password has at least one uppercase
// letter, one lowercase letter and one number.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	hasUpper := false
	hasLower := false
	hasNumber := false

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if unicode.IsNumber(char) {
			hasNumber = true
		}

		if hasUpper && hasLower && hasNumber {
			return true
		}
	}

	return hasUpper && hasLower && hasNumber
}

// -------- Registration --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if err := validate.Struct(r); err != nil {
		return mapValidationErr(err)
	}
	return nil
}

// CreateUserRequest is the admin provisioning payload; role is optional.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
	Role     string `json:"role" validate:"omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if err := validate.Struct(r); err != nil {
		return mapValidationErr(err)
	}
	if r.Role != "" && !domain.IsValidRole(r.Role) {
		return domain.ErrInvalidRole(r.Role)
	}
	return nil
}

// mapValidationErr converts validator errors into domain errors, reporting
// the first failing field.
func mapValidationErr(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidJSON(err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "password_strength":
		return domain.ErrWeakPassword("must contain upper, lower and digit")
	case "min":
		if field == "password" {
			return domain.ErrWeakPassword("min length " + fe.Param())
		}
		return domain.ErrInvalidField(field, "too short")
	case "max":
		return domain.ErrInvalidField(field, "too long")
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	default:
		return domain.ErrInvalidField(field, "invalid")
	}
}

// -------- Profile updates --------

// UpdateProfileRequest is the partial-update payload. Every field is
// optional; absent and null both mean "leave unchanged" with the exception of
// clearable text fields, where an empty string clears the value. Unknown
// fields are rejected at decode time.
type UpdateProfileRequest struct {
	Email              *string `json:"email"`
	Nickname           *string `json:"nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	GithubProfileURL   *string `json:"github_profile_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
	Role               *string `json:"role"`
	IsProfessional     *bool   `json:"is_professional"`
}

// ToChanges maps the request onto the domain change set.
func (r *UpdateProfileRequest) ToChanges() domain.ProfileChanges {
	return domain.ProfileChanges{
		Email:              r.Email,
		Nickname:           r.Nickname,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Bio:                r.Bio,
		ProfilePictureURL:  r.ProfilePictureURL,
		GithubProfileURL:   r.GithubProfileURL,
		LinkedinProfileURL: r.LinkedinProfileURL,
		Role:               r.Role,
		IsProfessional:     r.IsProfessional,
	}
}

// -------- Moderation --------

type SetUserRoleRequest struct {
	Role string `json:"role"`
}

func (r *SetUserRoleRequest) Validate() error {
	if r.Role == "" {
		return domain.ErrMissingField("role")
	}
	if !domain.IsValidRole(r.Role) {
		return domain.ErrInvalidRole(r.Role)
	}
	return nil
}

type SetProfessionalRequest struct {
	IsProfessional *bool `json:"is_professional"`
}

func (r *SetProfessionalRequest) Validate() error {
	if r.IsProfessional == nil {
		return domain.ErrMissingField("is_professional")
	}
	return nil
}
