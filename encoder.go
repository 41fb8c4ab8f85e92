package hxpage

import (
	"errors"

	"github.com/pthm/hxpage/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates a new encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// ListenerRef addresses a listener of a component on a page kept by a
// session. It travels signed, or encrypted for sensitive applications, in
// listener URLs.
type ListenerRef struct {
	PageID   int    `msgpack:"p"`
	Path     string `msgpack:"c"`
	Listener string `msgpack:"l,omitempty"`
	// Behavior is the index of a listening behavior, -1 for a component
	// listener.
	Behavior int `msgpack:"b"`
}

// wrapEncodingError wraps encoding package errors with hxpage sentinel errors.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
