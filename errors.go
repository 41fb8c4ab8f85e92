package hxpage

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrNotFound          = errors.New("hxpage: resource not found")
	ErrPageExpired       = errors.New("hxpage: page expired")
	ErrDecryptFailed     = errors.New("hxpage: parameter decryption failed")
	ErrSignatureInvalid  = errors.New("hxpage: signature verification failed")
	ErrInvalidFormat     = errors.New("hxpage: invalid parameter format")
	ErrAlreadyAttached   = errors.New("hxpage: component already has a parent")
	ErrDuplicateID       = errors.New("hxpage: duplicate component id")
	ErrNotContainer      = errors.New("hxpage: component is not a container")
	ErrDuplicateQueueID  = errors.New("hxpage: duplicate id in queue")
	ErrUnableToDequeue   = errors.New("hxpage: unable to dequeue")
	ErrComponentNotFound = errors.New("hxpage: unable to find component")
	ErrNotRendered       = errors.New("hxpage: component has no markup")
	ErrInvalidBroadcast  = errors.New("hxpage: invalid broadcast type")
	ErrNilSink           = errors.New("hxpage: nil event sink")
	ErrComponentRemoved  = errors.New("hxpage: component has been removed from page")
	ErrBehaviorNotFound  = errors.New("hxpage: behavior not found")
	ErrListenerNotFound  = errors.New("hxpage: listener not found")
	ErrListenerDenied    = errors.New("hxpage: listener not allowed")
)

// QueueError is returned by Queue when the container already holds a queued
// component with the same id.
type QueueError struct {
	ID        string
	Container string
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("hxpage: %q is already queued in %s", e.ID, e.Container)
}

func (e *QueueError) Unwrap() error { return ErrDuplicateQueueID }

// DequeueError reports a queued component that no markup tag claimed.
type DequeueError struct {
	ID        string
	Container string
}

func (e *DequeueError) Error() string {
	return fmt.Sprintf("hxpage: unable to dequeue component %q queued in %s", e.ID, e.Container)
}

func (e *DequeueError) Unwrap() error { return ErrUnableToDequeue }

// StaleComponentError is returned when a listener targets a component that is
// no longer part of the page it was rendered on.
type StaleComponentError struct {
	PageID int
	Path   string
}

func (e *StaleComponentError) Error() string {
	return fmt.Sprintf("hxpage: component %q has been removed from page %d", e.Path, e.PageID)
}

func (e *StaleComponentError) Unwrap() error { return ErrComponentRemoved }

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrListenerNotFound) || errors.Is(err, ErrBehaviorNotFound)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid) || errors.Is(err, ErrInvalidFormat)
}

// IsExpired checks if err reports a page or component that no longer exists.
func IsExpired(err error) bool {
	return errors.Is(err, ErrPageExpired) || errors.Is(err, ErrComponentRemoved)
}

// IsConfigError checks if err is a component tree configuration error found
// while matching components to markup.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnableToDequeue) || errors.Is(err, ErrComponentNotFound) ||
		errors.Is(err, ErrDuplicateQueueID) || errors.Is(err, ErrDuplicateID)
}
