package domain

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the default role allowed to inspect the credential snapshot.
const RoleAdmin = "admin"

// ErrInvalidCredentials is the only authentication failure callers ever see.
// Unknown usernames, wrong passwords and ambiguous records all collapse into it.
var ErrInvalidCredentials = errors.New("username or password is incorrect")

// Internal failure causes. They are used for diagnostics and must never cross
// the Authenticator boundary.
var (
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrPasswordMismatch    = errors.New("password mismatch")
	ErrAmbiguousIdentity   = errors.New("ambiguous identity record")
	ErrMissingRole         = errors.New("identity record has no role")
	ErrMalformedIdentity   = errors.New("malformed identity record")
	ErrSnapshotUnavailable = errors.New("identity snapshot unavailable")
)

// Identity is one authenticable principal as stored by the record store.
type Identity struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Validate reports whether the record can enter the credential snapshot.
// PasswordHash must be a bcrypt hash carrying its own cost and salt.
// The returned error never contains the password hash.
func (i Identity) Validate() error {
	switch {
	case i.Username == "":
		return ErrMalformedIdentity
	case i.PasswordHash == "":
		return ErrMalformedIdentity
	case i.Role == "":
		return ErrMissingRole
	}
	if _, err := bcrypt.Cost([]byte(i.PasswordHash)); err != nil {
		return ErrMalformedIdentity
	}
	return nil
}

// AuthResult is the sanitized view of an Identity handed back after a
// successful authentication.
type AuthResult struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Result builds the sanitized result for this identity carrying token.
func (i Identity) Result(token string) *AuthResult {
	return &AuthResult{Username: i.Username, Role: i.Role, Token: token}
}
