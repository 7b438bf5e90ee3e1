package easyapi

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned by New when the options are inconsistent.
var ErrInvalidOption = errors.New("easyapi: invalid option")

// PanicError is the error recorded when an operation panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("easyapi: operation panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
