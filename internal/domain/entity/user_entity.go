package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Address and Credentials are owned by the user: they are created, updated
// and deleted only through it and are never shared between users.
type User struct {
	ID                 string
	Name               string
	UserIdentification string
	Email              string
	Profile            Profile
	LastUpdate         time.Time

	Address     *Address
	Credentials *Credentials
}

// Address is the postal address owned by a user.
type Address struct {
	Street       string
	Number       int
	Complement   string
	Neighborhood string
	City         string
	State        string
	Country      string
	PostalCode   string
	LastUpdate   time.Time
}

// Credentials holds the login data owned by a user.
// PasswordHash is a bcrypt hash, never the plain secret.
type Credentials struct {
	UserID       string
	Username     string
	PasswordHash string
	LastUpdate   time.Time
}

// Clone returns a deep copy of the aggregate.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Address != nil {
		a := *u.Address
		c.Address = &a
	}
	if u.Credentials != nil {
		cr := *u.Credentials
		c.Credentials = &cr
	}
	return &c
}
