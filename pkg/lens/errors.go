package lens

import (
	"fmt"
	"strings"
)

// APIError is returned when the API rejects a request, either at the HTTP
// layer or with GraphQL errors in the response envelope.
type APIError struct {
	Operation  string
	Message    string
	Status     int
	StatusText string
	Body       any
}

func (e *APIError) Error() string {
	if e == nil {
		return "lens API request failed"
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status=%d %s)", e.Operation, e.Message, e.Status, e.StatusText)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// ParseError is returned when a response cannot be decoded.
type ParseError struct {
	Operation string
	Message   string
	Body      string
	Cause     error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "lens API parse error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func joinGraphQLErrors(errors []graphQLError) string {
	messages := make([]string, 0, len(errors))
	for _, item := range errors {
		trimmed := strings.TrimSpace(item.Message)
		if trimmed != "" {
			messages = append(messages, trimmed)
		}
	}
	if len(messages) == 0 {
		return "request rejected"
	}
	return strings.Join(messages, "; ")
}
