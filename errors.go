package votable

import (
	"errors"
	"fmt"
)

// ErrEventQueueOverflow reports that one feed cycle produced more events
// than the queue can hold. The queue is sized so that well-formed input
// cannot trigger this; seeing it means an internal accounting bug.
var ErrEventQueueOverflow = errors.New("votable: event queue overflow (internal bug)")

var errClosed = errors.New("votable: parser is closed")

// ParseError reports malformed XML at a document position.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
