package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode is reported for a nil error.
	SuccessCode = 0

	// InternalCode is reported for errors that were not registered.
	InternalCode uint32 = 1

	internalMessage = "internal error"
)

// Public returns the code and message of an error as it can be shown to the
// client of a request. Errors that were not registered are internal and
// their message is replaced with a generic one unless debug is set.
func Public(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}
	code := codeOf(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == InternalCode:
		return InternalCode, internalMessage
	default:
		return code, err.Error()
	}
}

type coder interface {
	Code() uint32
}

// codeOf returns the code of the first error in the cause chain that has
// one.
func codeOf(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		c, ok := err.(causer)
		if !ok {
			return InternalCode
		}
		err = c.Cause()
	}
}

// Redact replaces every error that is not registered, and every panic, with
// a generic internal error. Debug mode returns the error unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || codeOf(err) == InternalCode {
		return errors.New(internalMessage)
	}
	return err
}
