// Package auth provides bearer-token verification for the HTTP surface.
// The core has no user accounts of its own: the host issues tokens and the
// core only validates them to resolve the acting user.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before time is
	// in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
