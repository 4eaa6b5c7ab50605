package shared

import "errors"

var (
	// ErrUnauthenticated means no caller identity was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotFound means a referenced user/gig/order/escrow/dispute does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller lacks the required relationship to the
	// target: not a participant, not the order's client, or no active
	// subscription.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict covers duplicate creation (email, review) and state
	// conflicts such as an illegal order status transition or refunding a
	// released escrow.
	ErrConflict = errors.New("conflict")

	ErrValidation = errors.New("validation error")
)
