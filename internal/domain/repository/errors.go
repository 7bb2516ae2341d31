package repository

import "errors"

var (
	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAlreadyLiked is returned when a like insert loses the uniqueness
	// race: an engagement row for the (video, user) pair already exists.
	// The caller can safely retry the toggle.
	ErrAlreadyLiked = errors.New("video already liked by user")

	// ErrNotLiked is returned when an unlike observes that the engagement
	// row has already been removed by a concurrent request.
	ErrNotLiked = errors.New("video not liked by user")

	// ErrBucketNotFound is returned when the configured storage bucket
	// does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound is returned when a stored object cannot be found.
	ErrObjectNotFound = errors.New("object not found")
)
