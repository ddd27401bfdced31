package model

import (
	"time"
)

// User represents a registered account with its company profile.
// Profile fields are optional; absent fields stay nil and are skipped
// wherever the profile is displayed.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CompanyName  *string   `json:"company_name,omitempty"`
	Sector       *string   `json:"sector,omitempty"`
	Headcount    *string   `json:"headcount,omitempty"`
	Revenue      *string   `json:"revenue,omitempty"`
	Country      *string   `json:"country,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CompanyProfile is the editable slice of a user record.
type CompanyProfile struct {
	CompanyName *string `json:"company_name"`
	Sector      *string `json:"sector"`
	Headcount   *string `json:"headcount"`
	Revenue     *string `json:"revenue"`
	Country     *string `json:"country"`
}
