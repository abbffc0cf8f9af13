/*
Package errors implements the error kinds shared by all splitpay extensions.

Every error returned to a client must wrap one of the registered root errors.
Each root error carries a stable numeric code so that clients can react to the
kind of a failure without parsing messages. Extensions declare their own kinds
using Register(code, description) during program startup.

Create errors using ErrXyz.New("...") or Wrap(err, "...") at the point of
creation to ensure a stacktrace is attached. If you wrap multiple times, only
the first wrap records the stacktrace.
*/
package errors
