package domain

import "errors"

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("value not found")

	// ErrValueExists is returned when an insert or update would violate a
	// uniqueness constraint.
	ErrValueExists = errors.New("value already exists")

	// ErrValueLocked is returned when a delete is blocked by existing
	// dependents, or when a write targets a locked album.
	ErrValueLocked = errors.New("value is locked")

	// ErrValueInvalid is returned for malformed filter fields or operators.
	// It indicates a programming error, not user input.
	ErrValueInvalid = errors.New("value is invalid")

	// ErrMediaTypeNotSupported is returned when a file's sniffed content type
	// is not in the supported set.
	ErrMediaTypeNotSupported = errors.New("media type not supported")

	// ErrMediaTooLarge is returned when an upload exceeds the configured size limit.
	ErrMediaTooLarge = errors.New("media too large")
)
