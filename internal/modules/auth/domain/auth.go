package domain

import "time"

const TokenKey = "auth-token"

type User struct {
	ID    string
	Name  string
	Email string
}

type Status struct {
	Authenticated  bool
	User           User
	HasToken       bool
	TokenExpiresAt time.Time
}

// TokenExpired reports whether a known expiry lies before now. Tokens without
// an expiry never expire on the client side.
func TokenExpired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && !expiresAt.After(now)
}
