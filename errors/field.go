package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the model attribute it is about. A nil
// err returns nil, so that the result can be passed to Append directly.
//
// Name fields the way they are called in Go. Nested fields are joined with
// a dot and slice elements use their index, for example Splits.2.Weight.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// The stack trace is attached once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField appends the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for given field name. The whole
// error tree is searched. A matching field error is returned as it is, its
// causes are not searched any further.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == name {
			return append(found, err)
		}
		// A multi error unpacks to all of its causes.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				found = append(found, FieldErrors(e, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}
