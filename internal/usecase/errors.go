package usecase

import (
	"errors"
	"fmt"
)

// Services surface three error kinds to the transport layer: validation
// (business-rule-violating input), not-found (missing referenced record) and
// conflict (operation illegal in the record's current state). Best-effort
// secondary effects never produce any of these; their failures are logged
// and swallowed.

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
)

type ServiceError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) error {
	return &ServiceError{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &ServiceError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &ServiceError{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func errorKindIs(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

func IsValidation(err error) bool { return errorKindIs(err, KindValidation) }
func IsNotFound(err error) bool   { return errorKindIs(err, KindNotFound) }
func IsConflict(err error) bool   { return errorKindIs(err, KindConflict) }
