package auth

import "github.com/google/uuid"

// NewSessionToken returns an opaque, unguessable session token.
func NewSessionToken() string {
	return uuid.NewString()
}
