package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If an error is a multi error, its content is flattened into the result.
// The returned error reports the code of the first collected error.
func Append(errs ...error) error {
	var collected []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			collected = append(collected, m.errs...)
		} else {
			collected = append(collected, e)
		}
	}
	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	}
	return &multiErr{errs: collected}
}

type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Unpack implements the unpacker interface.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// Code returns the code of the first error, consistent with a fail-fast
// approach.
func (m *multiErr) Code() uint32 {
	return codeOf(m.errs[0])
}

// unpacker is implemented by errors that club together more than one error.
type unpacker interface {
	Unpack() []error
}
