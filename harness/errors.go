package harness

import "errors"

var (
	// ErrInvalidArgument means a parameter was missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means a named resource or global did not exist.
	ErrNotFound = errors.New("not found")

	ErrAlreadyBound       = errors.New("ready state handlers have already been bound to this subject")
	ErrAlreadyBuilt       = errors.New("builder has already been used to build a subject")
	ErrAlreadyInitialized = errors.New("subject has already been initialized")
	ErrNotInitialized     = errors.New("subject has not been initialized")

	// ErrDetachWithoutParent means the subject's frame was never attached, or has already
	// been detached.
	ErrDetachWithoutParent = errors.New("subject is not attached to a container")
)
