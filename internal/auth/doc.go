// Package auth holds the credential handling used by the user directory:
// the password policy, bcrypt hashing, HS256 bearer tokens and the gate that
// turns an Authorization header into an authenticated Identity.
package auth
