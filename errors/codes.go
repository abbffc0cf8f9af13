package errors

// Kinds shared by every package. Extensions register their own kinds with
// codes that do not collide with these.
var (
	// Request and authorization problems.
	ErrUnauthorized = Register(2, "unauthorized")
	ErrMsg          = Register(4, "invalid message")
	ErrInput        = Register(14, "invalid input")
	ErrEmpty        = Register(9, "value is empty")
	ErrType         = Register(11, "invalid type")

	// Stored state problems.
	ErrNotFound  = Register(3, "not found")
	ErrDuplicate = Register(6, "duplicate")
	ErrModel     = Register(5, "invalid model")
	ErrState     = Register(10, "invalid state")
	ErrSchema    = Register(17, "invalid schema")

	// Value arithmetic problems.
	ErrAmount             = Register(13, "invalid amount")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")

	// ErrIteratorDone ends every store iteration.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrDatabase is a failure of the storage engine itself.
	ErrDatabase = Register(19, "database")

	// ErrHuman marks a code path that a correct program never takes.
	ErrHuman = Register(7, "coding error")

	// ErrPanic is set only by Recover. It is always redacted.
	ErrPanic = Register(111222, "panic")
)
