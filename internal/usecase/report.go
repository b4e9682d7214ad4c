// Package usecase contains the application use cases.
package usecase

import (
	"fmt"

	"github.com/runoshun/boards-seed/internal/domain"
)

// Report collects per-item outcomes of a create or delete run.
// Fields are ordered to minimize memory padding.
type Report struct {
	Failures []error                 // *domain.OperationError values in the order they happened
	NotFound []*domain.NotFoundError // Fallback searches with no match; not failures
	Created  int
	Linked   int
	Deleted  int
	Skipped  int // Nodes not attempted because their parent was not created
}

// Failed reports whether any operation failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err returns an error wrapping domain.ErrPartialFailure when any operation failed.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	return fmt.Errorf("%w: %d failed", domain.ErrPartialFailure, len(r.Failures))
}

func (r *Report) fail(op, title string, remoteID int, err error) *domain.OperationError {
	opErr := &domain.OperationError{Op: op, Title: title, RemoteID: remoteID, Err: err}
	r.Failures = append(r.Failures, opErr)
	return opErr
}
