package domain

import "errors"

// Usage errors are returned before the backend is touched.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMode indicates the operation is not allowed in the store's mode.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidContext indicates an execution context index outside [0, nth).
	ErrInvalidContext = errors.New("invalid context")

	// ErrNotFound indicates a requested file or entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed indicates the store has already been closed.
	ErrClosed = errors.New("store closed")

	// ErrNotImplemented indicates a service was built without its store factory.
	ErrNotImplemented = errors.New("not implemented")
)

// ErrIndexBuild indicates a unique index could not be created. Rows written
// before the failure remain committed but uniqueness is no longer enforced.
var ErrIndexBuild = errors.New("index build failed")
