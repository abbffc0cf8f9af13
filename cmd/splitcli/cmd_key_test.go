package main

import (
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/splitpay/splittest/assert"
)

func TestKeygenDerivation(t *testing.T) {
	seed, err := hex.DecodeString(testSeed)
	assert.Nil(t, err)

	cases := map[string]struct {
		seed    []byte
		path    string
		wantErr bool
	}{
		"first account": {
			seed: seed,
			path: "m/44'/234'/0'",
		},
		"second account": {
			seed: seed,
			path: "m/44'/234'/1'",
		},
		"non hardened path": {
			seed:    seed,
			path:    "m/44/234/0",
			wantErr: true,
		},
		"malformed path": {
			seed:    seed,
			path:    "44'/234'",
			wantErr: true,
		},
	}

	seen := make(map[string]string)
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := keygen(tc.seed, tc.path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			assert.Nil(t, err)

			again, err := keygen(tc.seed, tc.path)
			assert.Nil(t, err)
			assert.Equal(t, key.Ed25519, again.Ed25519)

			addr := key.PublicKey().Address().String()
			if other, ok := seen[addr]; ok {
				t.Fatalf("%q and %q derived the same key", testName, other)
			}
			seen[addr] = testName
		})
	}
}

func TestKeygenRandom(t *testing.T) {
	a, err := keygen(nil, "")
	assert.Nil(t, err)
	b, err := keygen(nil, "")
	assert.Nil(t, err)
	if a.PublicKey().Address().Equals(b.PublicKey().Address()) {
		t.Fatal("random keys must differ")
	}
}

func TestKeyaddr(t *testing.T) {
	key := filepath.Join(t.TempDir(), "priv.key")
	addr := mustRunCmd(t, "keygen", "-key", key, "-seed", testSeed)

	out := mustRunCmd(t, "keyaddr", "-key", key, "-hrp", "split", "-pubkey")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, strings.TrimSpace(addr), lines[0])
	if !strings.HasPrefix(lines[1], "split1") {
		t.Fatalf("unexpected bech32 address %q", lines[1])
	}
	assert.Equal(t, 64, len(lines[2]))
}
