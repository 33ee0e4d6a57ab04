package models

import "time"

// User is the profile of the signed-in citizen as returned by GET /user.
type User struct {
	ID              ID         `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Role            string     `json:"role,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (u *User) Verified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}
