package models

import (
	"time"
)

// AttendeeStatus values for imported roster rows.
const (
	AttendeeStatusActive = "active"
)

// Attendee represents a stored roster row.
type Attendee struct {
	ID                      string    `json:"id" db:"id"`
	Name                    string    `json:"name" db:"name"`
	FirstName               string    `json:"first_name" db:"first_name"`
	LastName                string    `json:"last_name" db:"last_name"`
	Email                   string    `json:"email" db:"email"`
	PhoneNumber             *string   `json:"phone_number,omitempty" db:"phone_number"`
	TitlePosition           *string   `json:"title_position,omitempty" db:"title_position"`
	OrganizationAffiliation *string   `json:"organization_affiliation,omitempty" db:"organization_affiliation"`
	TShirtSize              *string   `json:"t_shirt_size,omitempty" db:"t_shirt_size"`
	DietaryRestrictions     *string   `json:"dietary_restrictions,omitempty" db:"dietary_restrictions"`
	AccessibilityNeeds      *string   `json:"accessibility_needs,omitempty" db:"accessibility_needs"`
	Bio                     *string   `json:"bio,omitempty" db:"bio"`
	Status                  string    `json:"status" db:"status"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// ImportedUser is the per-row summary returned for each attendee created
// by an import invocation.
type ImportedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
