package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrMissingEpics     = errors.New(`missing top-level "epics" key`)
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidHierarchy = errors.New("invalid hierarchy")
	ErrNotFound         = errors.New("work item not found")
	ErrParentNotCreated = errors.New("parent work item was not created")
	ErrPartialFailure   = errors.New("one or more operations failed")
	ErrUnknownBackend   = errors.New("unknown backend kind")
	ErrInvalidLinkMode  = errors.New("invalid link mode")
	ErrMissingToken     = errors.New("personal access token not set")
	ErrMissingScope     = errors.New("organization and project must be configured")
	ErrConfigExists     = errors.New("config file already exists")
	ErrConfigNil        = errors.New("config is nil")
)

// ParseError reports an input file that could not be turned into a hierarchy.
type ParseError struct {
	Err  error
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OperationError reports a failed backend call for a single work item.
// Fields are ordered to minimize memory padding.
type OperationError struct {
	Err      error
	Op       string // create, link, delete or search
	Title    string
	RemoteID int // zero when the item has no ID yet
}

func (e *OperationError) Error() string {
	if e.RemoteID > 0 {
		return fmt.Sprintf("%s %q (ID %d): %v", e.Op, e.Title, e.RemoteID, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Title, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a title search with no matching work item.
type NotFoundError struct {
	Type  string
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with title %q", e.Type, e.Title)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
