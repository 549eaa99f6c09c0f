package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// For prompts this means the title is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Prompt Errors.

	// ErrDuplicateCommand indicates the command collides case-insensitively
	// with a command owned by another prompt.
	ErrDuplicateCommand = errors.New("duplicate command")

	// ErrInvalidCommand indicates a command without a leading slash,
	// with nothing after the slash, or containing whitespace.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInvalidContent indicates prompt content with more than one placeholder.
	ErrInvalidContent = errors.New("invalid content")

	// ErrMalformedRecord indicates a stored record is missing a required field.
	// Stores skip such records when listing.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedType indicates an unknown storage backend, sink or format.
	ErrUnsupportedType = errors.New("unsupported type")
)
