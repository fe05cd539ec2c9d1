package models

import "time"

const (
	RoleMember       = "member"
	RolePractitioner = "practitioner"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type User struct {
	ID       string    `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Created  time.Time `json:"created_at"`
}

type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	JSONFileURL string    `json:"json_file_url"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleMember || role == RolePractitioner
}

func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}
