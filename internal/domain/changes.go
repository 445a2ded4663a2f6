package domain

// Field names as they appear in requests, errors and change events.
const (
	FieldEmail              = "email"
	FieldNickname           = "nickname"
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldBio                = "bio"
	FieldProfilePictureURL  = "profile_picture_url"
	FieldGithubProfileURL   = "github_profile_url"
	FieldLinkedinProfileURL = "linkedin_profile_url"
	FieldRole               = "role"
	FieldIsProfessional     = "is_professional"
)

// ProfileChanges is the closed set of mutable account fields. A nil member
// means "leave untouched"; unknown field names cannot be expressed at all,
// which pushes the unknown-field check to decode time.
type ProfileChanges struct {
	Email              *string
	Nickname           *string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	GithubProfileURL   *string
	LinkedinProfileURL *string

	Role           *string
	IsProfessional *bool
}

// IsEmpty reports whether no field is requested.
func (c ProfileChanges) IsEmpty() bool {
	return c.Email == nil && c.Nickname == nil && c.FirstName == nil &&
		c.LastName == nil && c.Bio == nil && c.ProfilePictureURL == nil &&
		c.GithubProfileURL == nil && c.LinkedinProfileURL == nil &&
		c.Role == nil && c.IsProfessional == nil
}

// ProfileFieldNames lists the requested plain profile fields (everything
// except role and is_professional) in canonical order.
func (c ProfileChanges) ProfileFieldNames() []string {
	var out []string
	if c.Email != nil {
		out = append(out, FieldEmail)
	}
	if c.Nickname != nil {
		out = append(out, FieldNickname)
	}
	if c.FirstName != nil {
		out = append(out, FieldFirstName)
	}
	if c.LastName != nil {
		out = append(out, FieldLastName)
	}
	if c.Bio != nil {
		out = append(out, FieldBio)
	}
	if c.ProfilePictureURL != nil {
		out = append(out, FieldProfilePictureURL)
	}
	if c.GithubProfileURL != nil {
		out = append(out, FieldGithubProfileURL)
	}
	if c.LinkedinProfileURL != nil {
		out = append(out, FieldLinkedinProfileURL)
	}
	return out
}

// ApplyTo merges the requested fields into u and returns the names of the
// fields whose stored value actually changed. Re-applying an identical
// mutation therefore reports no changed fields but is still accepted.
func (c ProfileChanges) ApplyTo(u *User) []string {
	var changed []string

	setStr := func(name string, dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = append(changed, name)
		}
	}

	if c.Role != nil && u.Role != *c.Role {
		u.Role = *c.Role
		changed = append(changed, FieldRole)
	}
	if c.IsProfessional != nil && u.IsProfessional != *c.IsProfessional {
		u.IsProfessional = *c.IsProfessional
		changed = append(changed, FieldIsProfessional)
	}

	setStr(FieldEmail, &u.Email, c.Email)
	setStr(FieldNickname, &u.Nickname, c.Nickname)
	setStr(FieldFirstName, &u.FirstName, c.FirstName)
	setStr(FieldLastName, &u.LastName, c.LastName)
	setStr(FieldBio, &u.Bio, c.Bio)
	setStr(FieldProfilePictureURL, &u.ProfilePictureURL, c.ProfilePictureURL)
	setStr(FieldGithubProfileURL, &u.GithubProfileURL, c.GithubProfileURL)
	setStr(FieldLinkedinProfileURL, &u.LinkedinProfileURL, c.LinkedinProfileURL)

	return changed
}
