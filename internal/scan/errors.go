package scan

import "fmt"

// TransportError is a network, auth, or rate-limit failure from the log
// source. It is never retried here; the caller may retry the whole
// FetchAll call.
type TransportError struct {
	Op      string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("log source: %s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("log source: %s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("log source: %s", e.Op)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
