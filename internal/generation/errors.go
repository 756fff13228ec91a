package generation

import (
	"fmt"
	"strings"
)

// APICallError represents a transport-level failure talking to the generative engine
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error parsing the engine's response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IncompleteResponseError reports a response that parsed but is missing
// required top-level fields. Nothing from such a response is ever committed.
type IncompleteResponseError struct {
	Missing []string
	Cause   error
}

func (e *IncompleteResponseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("incomplete response: missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("incomplete response: %v", e.Cause)
	}
	return "incomplete response"
}

func (e *IncompleteResponseError) Unwrap() error {
	return e.Cause
}
