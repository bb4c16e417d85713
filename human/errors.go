package human

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotVisible means the element has no visible bounding box.
	// Not retried here; the caller may scroll and try again.
	ErrTargetNotVisible = errors.New("target not visible")

	// ErrDispatchFailed means the page rejected an input primitive.
	// Positions committed before the failure stay committed.
	ErrDispatchFailed = errors.New("dispatch failed")
)

// DispatchError records which primitive failed
type DispatchError struct {
	Op  string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("human: dispatch %s: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{ErrDispatchFailed, e.Err}
}

func dispatchErr(op string, err error) error {
	return &DispatchError{Op: op, Err: err}
}
