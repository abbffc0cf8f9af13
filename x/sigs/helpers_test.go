package sigs

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/splittest"
)

// StdTx is a signed transaction carrying a mock message.
type StdTx struct {
	splittest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ splitpay.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &splittest.Msg{RoutePath: "mock/msg", Serialized: payload}
	return &StdTx{Tx: splittest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []splitpay.Condition
}

var _ splitpay.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &splitpay.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &splitpay.DeliverResult{}, nil
}
