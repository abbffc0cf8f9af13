package splitpay

import (
	"fmt"
	"strings"
)

// Query modifiers understood by bucket query handlers. A query path carries
// the modifier after a question mark, for example "/aliases?prefix".
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key/value result of a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a Model for the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers read only queries against the state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of a package to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches query paths to handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function against this router.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register binds h to path. A path can be bound only once.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, dup := r.routes[path]; dup {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// ParseQueryPath splits a query path into the handler path and the
// modifier.
func ParseQueryPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, KeyQueryMod
}
