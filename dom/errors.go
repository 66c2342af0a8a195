package dom

import "errors"

var (
	ErrNoParent      = errors.New("node has no parent")
	ErrNotContainer  = errors.New("node cannot contain children")
	ErrNotChild      = errors.New("node is not a child of this container")
	ErrHierarchy     = errors.New("node cannot be appended to itself or one of its descendants")
	ErrWrongDocument = errors.New("node belongs to a different document")
	ErrClosed        = errors.New("document is closed")
)
