package user

import (
	"strings"
	"time"
)

// MembershipType identifies a paid plan
type MembershipType string

const (
	MembershipNone   MembershipType = ""
	MembershipSilver MembershipType = "silver"
	MembershipGold   MembershipType = "gold"
)

// User is the canonical profile record
type User struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Age            int            `json:"age,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	About          string         `json:"about,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	IsPremium      bool           `json:"isPremium"`
	MembershipType MembershipType `json:"membershipType,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// PublicProfile is the projection safe to expose to other users: no email
// mutations, no premium internals beyond the flag itself.
type PublicProfile struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Age       int      `json:"age,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
	About     string   `json:"about,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// Public returns the public-safe projection of the user
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		PhotoURL:  u.PhotoURL,
		About:     u.About,
		Skills:    u.Skills,
	}
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfileUpdate carries the fields a user may change about themselves.
// Pointers distinguish "not provided" from zero values.
type ProfileUpdate struct {
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	About     *string   `json:"about,omitempty"`
	Skills    *[]string `json:"skills,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil &&
		p.Gender == nil && p.PhotoURL == nil && p.About == nil && p.Skills == nil
}

// Apply writes the provided fields onto the user
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
	u.UpdatedAt = time.Now()
}
