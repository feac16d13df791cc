package order

import "fmt"

// Status is the fulfillment state of a single vendor sub-order. Every
// sub-order starts as StatusPending and either advances one linear step at a
// time through to StatusCompleted, or drops out to StatusCancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// linear is the forward fulfillment path. StatusCancelled sits outside it.
var linear = []Status{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
}

// ParseStatus validates a raw status string from a client or the store.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady,
		StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no transitions lead out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Successor returns the next linear status after s. It returns false for
// terminal states and for StatusCancelled.
func (s Status) Successor() (Status, bool) {
	for i, st := range linear {
		if st == s && i+1 < len(linear) {
			return linear[i+1], true
		}
	}
	return "", false
}

// NextAllowed returns the set of statuses a sub-order in state current may
// legally move to: the immediate linear successor plus cancellation. Terminal
// states allow nothing.
func NextAllowed(current Status) []Status {
	if current.Terminal() {
		return nil
	}
	next, ok := current.Successor()
	if !ok {
		return nil
	}
	return []Status{next, StatusCancelled}
}

// CanTransition reports whether moving from current to target is legal.
// Skipping ahead, moving backward, and leaving a terminal state are all
// rejected.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range NextAllowed(s) {
		if allowed == target {
			return true
		}
	}
	return false
}
