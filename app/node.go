package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Node executes requests against a committed state. Requests are
// serialized. Each request runs on its own cache wrap of the state, which is
// written only when the request succeeds. Every successfully delivered
// request is committed as a new version.
type Node struct {
	mu      sync.Mutex
	store   *CommitStore
	handler splitpay.Handler
	queries splitpay.QueryRouter
	logger  log.Logger
	now     func() time.Time
	chainID string
}

// NewNode loads the latest state version and returns a node processing
// requests with the given handler.
func NewNode(store splitpay.CommitKVStore, handler splitpay.Handler, queries splitpay.QueryRouter) (*Node, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	return &Node{
		store:   cs,
		handler: handler,
		queries: queries,
		logger:  log.NewNopLogger(),
		now:     time.Now,
		chainID: chainID,
	}, nil
}

// WithLogger sets the logger passed to every request.
func (n *Node) WithLogger(logger log.Logger) *Node {
	n.logger = logger
	return n
}

// WithClock sets the source of the block time.
func (n *Node) WithClock(now func() time.Time) *Node {
	n.now = now
	return n
}

// ChainID returns the chain id set during genesis or an empty string if the
// state was not initialized yet.
func (n *Node) ChainID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chainID
}

// InitChain loads the genesis into an empty state and commits it.
func (n *Node) InitChain(gen *Genesis, init splitpay.Initializer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.chainID != "" {
		return errors.Wrapf(errors.ErrState, "state previously initialized for chain %q", n.chainID)
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}

	db := n.store.Request()
	if err := saveChainID(db, gen.ChainID); err != nil {
		db.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppState, db); err != nil {
		db.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := db.Write(); err != nil {
		return errors.Wrap(err, "write")
	}
	commit, err := n.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	n.chainID = gen.ChainID
	n.logger.Info("Genesis loaded", "chain_id", gen.ChainID, "height", commit.Version)
	return nil
}

// Check runs the check phase of the request. State changes are always
// discarded.
func (n *Node) Check(tx splitpay.Tx) (*splitpay.CheckResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ctx, err := n.context()
	if err != nil {
		return nil, err
	}
	db := n.store.Request()
	defer db.Discard()
	return n.handler.Check(ctx, db, tx)
}

// Deliver runs the check phase and then executes the request. The request
// result is committed only if both phases succeed.
func (n *Node) Deliver(tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ctx, err := n.context()
	if err != nil {
		return nil, err
	}

	check := n.store.Request()
	_, err = n.handler.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	db := n.store.Request()
	res, err := n.handler.Deliver(ctx, db, tx)
	if err != nil {
		db.Discard()
		return nil, err
	}
	if err := db.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	commit, err := n.store.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	n.logger.Debug("Commit synced",
		"height", commit.Version,
		"hash", fmt.Sprintf("%X", commit.Hash))
	return res, nil
}

// Query runs a read only query against the latest state. Path may be
// followed by "?prefix" to make a prefix query.
func (n *Node) Query(path string, data []byte) ([]splitpay.Model, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	path, mod := splitpay.ParseQueryPath(path)
	qh := n.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path)
	}
	db := n.store.Request()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// View calls fn with a read only view of the latest state.
func (n *Node) View(fn func(db splitpay.ReadOnlyKVStore) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	db := n.store.Request()
	defer db.Discard()
	return fn(db)
}

// Height returns the latest committed version.
func (n *Node) Height() (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	info, err := n.store.CommitInfo()
	if err != nil {
		return 0, err
	}
	return info.Version, nil
}

// context returns the request context. The height is the version the
// request result is going to be committed as.
func (n *Node) context() (splitpay.Context, error) {
	if n.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "state not initialized")
	}
	info, err := n.store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	ctx := context.Background()
	ctx = splitpay.WithChainID(ctx, n.chainID)
	ctx = splitpay.WithHeight(ctx, info.Version+1)
	ctx = splitpay.WithBlockTime(ctx, n.now().UTC())
	ctx = splitpay.WithLogger(ctx, n.logger.With("height", info.Version+1))
	return ctx, nil
}
