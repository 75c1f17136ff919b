package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Moderation errors
	ErrBanned = errors.New("user is banned")

	// Social errors
	ErrSelfFriendRequest = errors.New("cannot send a friend request to yourself")

	// Session errors
	ErrNotRegistered    = errors.New("session has no registered user")
	ErrIdentityMismatch = errors.New("session is registered as a different user")

	// Protocol errors
	ErrInvalidPayload = errors.New("invalid event payload")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrRateLimited    = errors.New("too many events")
)
