// Package auth holds the credential store and the session authenticator:
// identities loaded once at startup, bcrypt password verification, and
// signed time-limited session tokens.
package auth

import "errors"

// Identity is one sales-team account. Built at startup, immutable for the
// process lifetime; only the bcrypt hash is retained.
type Identity struct {
	Login        string
	DisplayName  string
	PasswordHash string
	Active       bool
}

// Credential is a cleartext entry coming out of a configuration source.
// It only exists during startup, until the store hashes it.
type Credential struct {
	Login       string `yaml:"login"`
	DisplayName string `yaml:"name"`
	Password    string `yaml:"password"`
}

// Authentication failure taxonomy. HTTP collapses all of these into one
// generic message so the form never reveals which part was wrong.
var (
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrBadCredential   = errors.New("bad credential")
	ErrDisabled        = errors.New("identity disabled")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenMalformed  = errors.New("token malformed")
)
