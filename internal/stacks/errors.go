package stacks

import "fmt"

// HTTPError is returned when the API answers with a non-success status.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// CallError is returned when a read-only call is rejected by the node.
type CallError struct {
	Function string
	Cause    string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("read-only call %s failed: %s", e.Function, e.Cause)
}
