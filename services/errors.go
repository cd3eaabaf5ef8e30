package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies a service failure so handlers can pick a status code
// without inspecting error text.
type ErrorKind int

const (
	KindStorage ErrorKind = iota
	KindNotFound
	KindInvalid
	KindBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindBadRequest:
		return "bad_request"
	default:
		return "storage"
	}
}

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCategoryNotFound = fmt.Errorf("category: %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question: %w", ErrNotFound)
)

// Error is returned by every service method that fails.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// storageError wraps a gorm failure, translating a missing record into
// KindNotFound carrying notFound as its cause.
func storageError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return newError(KindNotFound, op, notFound)
	}
	return newError(KindStorage, op, err)
}

// KindOf reports the kind of err. Errors that did not come from this package
// are treated as storage failures.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}
