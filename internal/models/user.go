package models

import (
	"time"
)

const RoleAdmin = "Admin"

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password"` // Never serialize in JSON
	Roles        []string  `json:"roles" bson:"roles"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// UserPatch carries the fields of a user update. PasswordHash is set by the service, never bound from a request.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Roles        *[]string
	Active       *bool
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Roles != nil {
		u.Roles = append([]string(nil), (*p.Roles)...)
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
}
