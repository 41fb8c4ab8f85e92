package markup

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkup is wrapped by every markup parse error.
	ErrMarkup = errors.New("markup: invalid markup")
	// ErrImmutable is returned by operations that would modify markup.
	ErrImmutable = errors.New("markup: markup is immutable, tags and raw markup can not be removed")
)

// ParseError reports an unbalanced or malformed component tag.
type ParseError struct {
	Line int
	Tag  string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("markup: line %d: %s: %s", e.Line, e.Tag, e.Msg)
	}
	return fmt.Sprintf("markup: %s: %s", e.Tag, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMarkup }
