package domain

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxEmailLen = 255
	maxNameLen  = 100
	maxBioLen   = 500
	maxURLLen   = 255
)

// Conventional address grammar. Intentionally not the full RFC: one local
// part, one @, a dotted domain.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks format and length only. Uniqueness needs a repository
// lookup and is the profile service's job.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingField(FieldEmail)
	}
	if len(email) > maxEmailLen {
		return ErrInvalidField(FieldEmail, "too long")
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidField(FieldEmail, "invalid format")
	}
	return nil
}

// Validate checks every requested field against its format and length
// constraints. It is pure: no repository access, same input same result.
func Validate(c ProfileChanges) error {
	if c.Email != nil {
		if err := ValidateEmail(*c.Email); err != nil {
			return err
		}
	}
	if c.Nickname != nil {
		if err := validateName(FieldNickname, *c.Nickname); err != nil {
			return err
		}
	}
	if c.FirstName != nil {
		if err := validateName(FieldFirstName, *c.FirstName); err != nil {
			return err
		}
	}
	if c.LastName != nil {
		if err := validateName(FieldLastName, *c.LastName); err != nil {
			return err
		}
	}
	if c.Bio != nil {
		if len(*c.Bio) > maxBioLen {
			return ErrInvalidField(FieldBio, "too long")
		}
		if containsControl(*c.Bio) {
			return ErrInvalidField(FieldBio, "control characters")
		}
	}
	if c.ProfilePictureURL != nil {
		if err := validateURL(FieldProfilePictureURL, *c.ProfilePictureURL); err != nil {
			return err
		}
	}
	if c.GithubProfileURL != nil {
		if err := validateURL(FieldGithubProfileURL, *c.GithubProfileURL); err != nil {
			return err
		}
	}
	if c.LinkedinProfileURL != nil {
		if err := validateURL(FieldLinkedinProfileURL, *c.LinkedinProfileURL); err != nil {
			return err
		}
	}
	if c.Role != nil && !IsValidRole(*c.Role) {
		return ErrInvalidRole(*c.Role)
	}
	return nil
}

func validateName(field, v string) error {
	if len(v) > maxNameLen {
		return ErrInvalidField(field, "too long")
	}
	if containsControl(v) {
		return ErrInvalidField(field, "control characters")
	}
	return nil
}

// Profile URLs are optional; an empty string clears the field.
func validateURL(field, v string) error {
	if v == "" {
		return nil
	}
	if len(v) > maxURLLen {
		return ErrInvalidField(field, "too long")
	}
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return ErrInvalidField(field, "must be an http(s) URL")
	}
	return nil
}

func containsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
