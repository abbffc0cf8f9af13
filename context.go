package splitpay

import (
	"context"
	"regexp"
	"time"

	"github.com/iov-one/splitpay/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is the request scope passed between the runner, decorators and
// handlers. Framework values are stored under private keys and accessed
// through a pair of functions for every value:
//
//	WithXYZ(Context, T) Context
//	GetXYZ(Context) (val T, ok bool)
//
// WithXYZ panics if the value was previously set, to avoid lower-level
// modules overwriting it.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyBlockTime
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithHeight sets the request sequence number for the context.
// Panics if the height was already set.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("Height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the request sequence number, if set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the context. Signatures are bound to it.
// Panics if the chain id was already set or is not valid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set")
	}
	if !IsValidChainID(chainID) {
		panic(errors.Wrapf(errors.ErrInput, "chain id %q", chainID))
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id set in the context or an empty string.
func GetChainID(ctx Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	return val
}

// WithBlockTime sets the time of the request execution. All handlers must use
// this value instead of the wall clock so that executing a request is
// deterministic.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the time of the request execution. It returns an error if
// the time was not set.
func BlockTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return t, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return t, nil
}

// WithLogger sets the logger for this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
