package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when the requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Kind classifies a storage failure so callers can react without inspecting
// driver-specific error strings.
type Kind int

const (
	// KindFault is an unclassified storage failure.
	KindFault Kind = iota

	// KindNotFound means the requested entity does not exist.
	KindNotFound

	// KindUnavailable means the backing store could not be reached. These
	// failures are treated as transient by the simulation driver.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "fault"
	}
}

// StoreError wraps a driver error with a Kind. Store adapters classify at the
// boundary so the rest of the system never matches on error text.
type StoreError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a classified storage error. NotFound errors also
// satisfy errors.Is(err, ErrNotFound).
func NewStoreError(kind Kind, op string, err error) error {
	if kind == KindNotFound {
		if err == nil {
			err = ErrNotFound
		} else if !errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the classification of err, defaulting to KindFault for
// errors that did not come from a store adapter.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindFault
}

// IsUnavailable reports whether err represents a transient connectivity
// failure to the backing store.
func IsUnavailable(err error) bool {
	return KindOf(err) == KindUnavailable
}
