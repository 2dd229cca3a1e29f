package utils

import (
	"github.com/pkg/errors"
)

// NewEntityNotFoundError is used when a dataset entity id is not found.
func NewEntityNotFoundError(kind string, id int64) error {
	return errors.Errorf("%s %d not found", kind, id)
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError[T any](actual interface{}) error {
	var expected T
	return errors.Errorf("expected %T but got %T", expected, actual)
}
