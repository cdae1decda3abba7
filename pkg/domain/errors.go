package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidLimit = errors.New("limit must be greater than zero")

// StoreError is returned by repositories when the backing store fails.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	if err == nil {
		return false
	}
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
