package domain

import "time"

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// Account models an authenticated actor in the system.
type Account struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	Active            bool       `json:"active"`
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PasswordChangedAfter reports whether the password was changed after a token
// issued at issuedAt. Both sides are compared in whole seconds, the
// resolution of the iat claim.
func (a *Account) PasswordChangedAfter(issuedAt time.Time) bool {
	if a.PasswordChangedAt == nil {
		return false
	}
	return a.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// Profile is the public projection of an Account returned by the auth and
// self-service endpoints.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

func (a *Account) EntityID() string { return a.ID }
