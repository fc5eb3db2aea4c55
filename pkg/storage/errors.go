package storage

import "fmt"

// Error is returned for failed storage service requests.
type Error struct {
	Message    string
	Status     int
	StatusText string
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "storage request failed"
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (status=%d %s)", e.Message, e.Status, e.StatusText)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
