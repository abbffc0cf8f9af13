package alias

import "github.com/iov-one/splitpay/errors"

var (
	ErrInvalidAliasLength     = errors.Register(100, "invalid alias length")
	ErrInvalidAliasCharacters = errors.Register(101, "invalid alias characters")
	ErrMetadataTooLong        = errors.Register(102, "metadata uri too long")
	ErrAliasAlreadyActive     = errors.Register(103, "alias already active")
	ErrAliasAlreadyInactive   = errors.Register(104, "alias already inactive")
)
