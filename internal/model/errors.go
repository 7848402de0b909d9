package model

import "fmt"

// MalformedEventError reports a log record whose topic or data shape does
// not match its declared kind. The raw record is attached for diagnostics;
// no partial recovery is attempted.
type MalformedEventError struct {
	Kind   EventKind
	Record RawLogRecord
	Reason string
	Err    error
}

func (e *MalformedEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s event (tx %s, log %s): %s: %v",
			e.Kind, e.Record.TxHash, e.Record.LogIndex, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s event (tx %s, log %s): %s",
		e.Kind, e.Record.TxHash, e.Record.LogIndex, e.Reason)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}
