package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// MsgRouter allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type MsgRouter struct {
	routes map[string]splitpay.Handler
}

var _ splitpay.Registry = (*MsgRouter)(nil)
var _ splitpay.Handler = (*MsgRouter)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *MsgRouter {
	return &MsgRouter{
		routes: make(map[string]splitpay.Handler, 32),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is not in the
// <package>/<action> format.
func (r *MsgRouter) Handle(path string, h splitpay.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// Paths returns all registered paths.
func (r *MsgRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	return paths
}

// handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *MsgRouter) handler(m splitpay.Msg) splitpay.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *MsgRouter) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *MsgRouter) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(splitpay.Context, splitpay.KVStore, splitpay.Tx) (*splitpay.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}

func (path notFoundHandler) Deliver(splitpay.Context, splitpay.KVStore, splitpay.Tx) (*splitpay.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}
