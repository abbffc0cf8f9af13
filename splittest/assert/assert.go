// Package assert holds the few test assertions used across the module.
package assert

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/iov-one/splitpay/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil. Typed nil pointers, slices and maps count as
// nil. Errors are printed with their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Bytes fails unless both slices hold the same bytes. A nil slice equals an
// empty one.
func Bytes(t Tester, want, got []byte) {
	t.Helper()
	if !bytes.Equal(want, got) {
		t.Fatalf("bytes not equal \nwant %X\n got %X", want, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError fails unless err carries exactly one error for given field and
// that error is of the wanted kind. A nil kind asserts that the field has no
// error at all.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	if want == nil {
		if len(errs) != 0 {
			logErrs(t, errs)
			t.Fatalf("field %q: want no error, got %d", field, len(errs))
		}
		return
	}
	switch {
	case len(errs) == 0:
		t.Fatalf("field %q: no error found", field)
	case len(errs) > 1:
		logErrs(t, errs)
		t.Fatalf("field %q: want one error, got %d", field, len(errs))
	case !want.Is(errs[0]):
		t.Fatalf("field %q: want %q error, got %q", field, want, errs[0])
	}
}

func logErrs(t testing.TB, errs []error) {
	t.Helper()
	for i, e := range errs {
		t.Logf("\terror %d: %q", i+1, e)
	}
}

// IsErr fails unless got matches want. Registered kinds are compared with
// their Is method, anything else must be the same value.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
