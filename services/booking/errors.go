package booking

import "fmt"

// ValidationError reports a missing or invalid request field. No state is
// changed when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError reports an unknown booking or payment session.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports that the requested slot was no longer available at
// persistence time, or that the booking is in a state that forbids the
// operation. The client should re-fetch availability.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// CutoffError reports a cancellation attempt inside the lead-time cutoff.
type CutoffError struct {
	Message string
}

func (e *CutoffError) Error() string {
	return e.Message
}

// UpstreamError wraps a gateway or store failure on the write path.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
