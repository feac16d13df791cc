package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrEmptyCart rejects a checkout with no items before anything is written.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError indicates a required checkout field is missing. It is
// recovered locally and never reaches the store.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError indicates a referenced order or sub-order does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError indicates a status change that is not the immediate
// successor of the current state (and not a legal cancellation).
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// PersistenceError wraps a store failure on read, write, or subscribe. No
// automatic retry is performed; the caller must re-invoke the operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
