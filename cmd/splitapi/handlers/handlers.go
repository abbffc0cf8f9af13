package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
	"github.com/iov-one/splitpay/x/payreq"
	"github.com/iov-one/splitpay/x/route"
	"github.com/tendermint/tendermint/libs/log"
)

// Querier is the read only part of the application node.
type Querier interface {
	Query(path string, data []byte) ([]splitpay.Model, error)
	ChainID() string
	Height() (int64, error)
}

// Store gives access to the application state for the duration of a single
// call of fn.
type Store interface {
	Open(fn func(q Querier) error) error
}

// Router returns all API endpoints.
func Router(st Store, logger log.Logger, build BuildInfo) chi.Router {
	r := chi.NewRouter()
	r.Get("/info", (&InfoHandler{Store: st, Build: build}).ServeHTTP)
	r.Get("/aliases/{alias}", (&AliasHandler{Store: st, Logger: logger}).ServeHTTP)
	r.Get("/routes/{alias}", (&RouteHandler{Store: st, Logger: logger}).ServeHTTP)
	r.Get("/requests/{alias}", (&RequestsHandler{Store: st, Logger: logger}).ServeHTTP)
	r.Get("/balances/{address}", (&BalanceHandler{Store: st, Logger: logger}).ServeHTTP)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Hash    string `json:"build_hash"`
	Version string `json:"build_version"`
}

type InfoHandler struct {
	Store Store
	Build BuildInfo
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		BuildInfo
		ChainID string `json:"chain_id"`
		Height  int64  `json:"height"`
	}{BuildInfo: h.Build}
	err := h.Store.Open(func(q Querier) error {
		resp.ChainID = q.ChainID()
		height, err := q.Height()
		resp.Height = height
		return err
	})
	if err != nil {
		JSONErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	JSONResp(w, http.StatusOK, resp)
}

// AliasHandler returns the record of a single alias.
type AliasHandler struct {
	Store  Store
	Logger log.Logger
}

func (h *AliasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "alias")
	if err := alias.ValidateAlias(name); err != nil {
		JSONErr(w, http.StatusBadRequest, "invalid alias")
		return
	}
	var rec alias.AliasRecord
	if err := queryOne(h.Store, "/aliases", alias.Address(name), &rec); err != nil {
		writeErr(w, h.Logger, err)
		return
	}
	JSONResp(w, http.StatusOK, &rec)
}

// RouteHandler returns the route configured for an alias.
type RouteHandler struct {
	Store  Store
	Logger log.Logger
}

func (h *RouteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "alias")
	if err := alias.ValidateAlias(name); err != nil {
		JSONErr(w, http.StatusBadRequest, "invalid alias")
		return
	}
	var rec route.RouteRecord
	if err := queryOne(h.Store, "/routes", route.Address(name), &rec); err != nil {
		writeErr(w, h.Logger, err)
		return
	}
	JSONResp(w, http.StatusOK, &rec)
}

// RequestsHandler returns all open payment requests of an alias.
type RequestsHandler struct {
	Store  Store
	Logger log.Logger
}

func (h *RequestsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "alias")
	if err := alias.ValidateAlias(name); err != nil {
		JSONErr(w, http.StatusBadRequest, "invalid alias")
		return
	}
	reqs := make([]*payreq.PaymentRequest, 0)
	err := h.Store.Open(func(q Querier) error {
		models, err := q.Query("/requests/alias", alias.Address(name))
		if err != nil {
			return err
		}
		for _, m := range models {
			var req payreq.PaymentRequest
			if err := req.Unmarshal(m.Value); err != nil {
				return errors.Wrapf(err, "request %X", m.Key)
			}
			reqs = append(reqs, &req)
		}
		return nil
	})
	if err != nil {
		writeErr(w, h.Logger, err)
		return
	}
	JSONResp(w, http.StatusOK, reqs)
}

// BalanceHandler returns the amount held by an address. If the ticker query
// parameter is set, the token sub-account of that address is used.
type BalanceHandler struct {
	Store  Store
	Logger log.Logger
}

func (h *BalanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr, err := splitpay.ParseAddress(chi.URLParam(r, "address"))
	if err != nil || len(addr) == 0 {
		JSONErr(w, http.StatusBadRequest, "invalid address")
		return
	}
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		if !cash.IsTicker(ticker) {
			JSONErr(w, http.StatusBadRequest, "invalid ticker")
			return
		}
		addr = cash.TokenAccountAddress(addr, ticker)
	}

	resp := struct {
		Address splitpay.Address `json:"address"`
		Ticker  string           `json:"ticker,omitempty"`
		Amount  uint64           `json:"amount"`
	}{Address: addr}
	var wallet cash.Wallet
	switch err := queryOne(h.Store, "/wallets", addr, &wallet); {
	case err == nil:
		resp.Ticker = wallet.Ticker
		resp.Amount = wallet.Amount
	case errors.ErrNotFound.Is(err):
		// A missing wallet holds nothing.
	default:
		writeErr(w, h.Logger, err)
		return
	}
	JSONResp(w, http.StatusOK, resp)
}

type unmarshaler interface {
	Unmarshal([]byte) error
}

// queryOne loads the single model stored under given key. ErrNotFound is
// returned if there is none.
func queryOne(st Store, path string, key []byte, dest unmarshaler) error {
	return st.Open(func(q Querier) error {
		models, err := q.Query(path, key)
		if err != nil {
			return err
		}
		switch len(models) {
		case 0:
			return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
		case 1:
			return dest.Unmarshal(models[0].Value)
		default:
			return errors.Wrapf(errors.ErrState, "%d results for %s %X", len(models), path, key)
		}
	})
}

// writeErr maps an error to the response status. Only registered errors
// are exposed, all other are logged.
func writeErr(w http.ResponseWriter, logger log.Logger, err error) {
	if errors.ErrNotFound.Is(err) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	code, msg := errors.Public(err, false)
	if code == errors.InternalCode {
		logger.Error("request failed", "err", err)
		JSONErr(w, http.StatusInternalServerError, msg)
		return
	}
	JSONErr(w, http.StatusBadRequest, msg)
}

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Errror"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONErrs(w, code, []string{errText})
}

// JSONErrs write multiple errors as JSON encoded response.
func JSONErrs(w http.ResponseWriter, code int, errs []string) {
	resp := struct {
		Errors []string `json:"errors"`
	}{
		Errors: errs,
	}
	JSONResp(w, code, resp)
}
