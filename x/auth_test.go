package x

import (
	"context"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
)

func TestAuthenticators(t *testing.T) {
	owner := splittest.NewCondition()
	payer := splittest.NewCondition()
	stranger := splittest.NewCondition()

	walletKey := &splittest.CtxAuth{Key: "wallet"}
	otherKey := &splittest.CtxAuth{Key: "other"}
	signed := walletKey.SetConditions(context.Background(), payer, owner)

	cases := map[string]struct {
		ctx        splitpay.Context
		auth       Authenticator
		wantMain   splitpay.Condition
		wantAll    []splitpay.Condition
		wantSigned splitpay.Condition
	}{
		"nobody signed": {
			ctx:  context.Background(),
			auth: &splittest.Auth{},
		},
		"single payer": {
			ctx:        context.Background(),
			auth:       &splittest.Auth{Signer: payer},
			wantMain:   payer,
			wantAll:    []splitpay.Condition{payer},
			wantSigned: payer,
		},
		"chained authenticators keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&splittest.Auth{Signer: owner},
				&splittest.Auth{Signer: payer},
			),
			wantMain:   owner,
			wantAll:    []splitpay.Condition{owner, payer},
			wantSigned: payer,
		},
		"conditions read from context": {
			ctx:        signed,
			auth:       walletKey,
			wantMain:   payer,
			wantAll:    []splitpay.Condition{payer, owner},
			wantSigned: owner,
		},
		"context key mismatch": {
			ctx:  signed,
			auth: otherKey,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))

			if tc.wantSigned != nil {
				if err := RequireSigner(tc.ctx, tc.auth, tc.wantSigned.Address(), "payer"); err != nil {
					t.Fatalf("signer rejected: %s", err)
				}
			}
			err := RequireSigner(tc.ctx, tc.auth, stranger.Address(), "payer")
			if !errors.ErrUnauthorized.Is(err) {
				t.Fatalf("want unauthorized, got %+v", err)
			}
		})
	}
}

func TestRequireSignerMessage(t *testing.T) {
	auth := &splittest.Auth{}
	err := RequireSigner(context.Background(), auth, splittest.NewCondition().Address(), "alias owner")
	assert.Equal(t, "alias owner signature missing: unauthorized", err.Error())

	if err := RequireSigner(context.Background(), auth, nil, "sender"); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("missing address must be unauthorized, got %+v", err)
	}
}

func TestSignerHelpers(t *testing.T) {
	sender := splittest.NewCondition()
	owner := splittest.NewCondition()
	stranger := splittest.NewCondition()
	ctx := context.Background()
	auth := &splittest.Auth{Signers: []splitpay.Condition{sender, owner}}

	assert.Equal(t, []splitpay.Address{sender.Address(), owner.Address()}, Signers(ctx, auth))
	assert.Equal(t, []splitpay.Address{}, Signers(ctx, &splittest.Auth{}))

	cases := map[string]struct {
		addrs []splitpay.Address
		want  bool
	}{
		"sender":                 {addrs: []splitpay.Address{sender.Address()}, want: true},
		"stranger then owner":    {addrs: []splitpay.Address{stranger.Address(), owner.Address()}, want: true},
		"stranger only":          {addrs: []splitpay.Address{stranger.Address()}},
		"nil address is skipped": {addrs: []splitpay.Address{nil}},
		"none":                   {},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, SignedByAny(ctx, auth, tc.addrs...))
		})
	}
}
