package postgres

import "time"

type userRow struct {
	ID                 string
	Email              string
	PasswordHash       string
	Nickname           string
	FirstName          string
	LastName           string
	Bio                string
	ProfilePictureURL  string
	GithubProfileURL   string
	LinkedinProfileURL string
	Role               string
	IsProfessional     bool
	State              string
	VerifyToken        string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastLoginAt        *time.Time
	DeletedAt          *time.Time
}
