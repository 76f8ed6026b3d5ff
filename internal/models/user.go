package models

import "strings"

// DefaultBank is the starting balance of every new player.
const DefaultBank = 100

// User is a row of highlow_users. Password always holds a bcrypt hash.
type User struct {
	ID            int    `json:"id"`
	UserName      string `json:"user_name"`
	Password      string `json:"-"`
	Bank          int    `json:"bank"`
	Administrator bool   `json:"administrator"`
}

// PublicUser is the shape sent to clients. It never carries the password hash.
type PublicUser struct {
	ID            int    `json:"id"`
	UserName      string `json:"user_name"`
	Bank          int    `json:"bank"`
	Administrator bool   `json:"administrator"`
}

// LoginUser is the user summary returned alongside a token.
type LoginUser struct {
	ID       int    `json:"id"`
	UserName string `json:"user_name"`
	Bank     int    `json:"bank"`
}

var markupEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// SanitizeText neutralises markup in stored user input before it is echoed to a client.
func SanitizeText(s string) string {
	return markupEscaper.Replace(s)
}

// Serialize converts a stored user into its public form.
func Serialize(u User) PublicUser {
	return PublicUser{
		ID:            u.ID,
		UserName:      SanitizeText(u.UserName),
		Bank:          u.Bank,
		Administrator: u.Administrator,
	}
}

// SerializeAll serializes a list of users, returning an empty (non-nil) slice for no users.
func SerializeAll(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, Serialize(u))
	}
	return out
}

// Summary is the login response view of u.
func (u User) Summary() LoginUser {
	return LoginUser{ID: u.ID, UserName: SanitizeText(u.UserName), Bank: u.Bank}
}

// UserUpdate lists the client-settable columns. Nil fields are left unchanged.
type UserUpdate struct {
	UserName *string
	Bank     *int
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.UserName == nil && u.Bank == nil
}
