package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest/assert"
)

// Factory returns an empty store and a function releasing it.
type Factory func() (CacheableKVStore, func())

// RunConformance checks the behaviour shared by every CacheableKVStore
// implementation. Every request is executed on a cache wrap of the state,
// so the cache semantics are exercised the same way.
func RunConformance(t *testing.T, newStore Factory) {
	t.Run("request isolation", func(t *testing.T) { requestIsolation(t, newStore) })
	t.Run("layered writes", func(t *testing.T) { layeredWrites(t, newStore) })
	t.Run("iteration", func(t *testing.T) { iteration(t, newStore) })
}

// AssertGetHas fails the test unless key holds want. A nil want means the
// key must be absent.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

func requestIsolation(t *testing.T, newStore Factory) {
	state, cleanup := newStore()
	defer cleanup()

	payer, shop := []byte("wallet:payer"), []byte("wallet:shop")
	assert.Nil(t, state.Set(payer, []byte("100")))

	// A failed request leaves nothing behind.
	failed := state.CacheWrap()
	assert.Nil(t, failed.Set(payer, []byte("40")))
	assert.Nil(t, failed.Set(shop, []byte("60")))
	AssertGetHas(t, failed, shop, []byte("60"))
	AssertGetHas(t, state, shop, nil)
	failed.Discard()
	AssertGetHas(t, state, payer, []byte("100"))
	AssertGetHas(t, state, shop, nil)

	// A successful request is visible only after it is written.
	ok := state.CacheWrap()
	assert.Nil(t, ok.Set(payer, []byte("40")))
	assert.Nil(t, ok.Set(shop, []byte("60")))
	AssertGetHas(t, state, payer, []byte("100"))
	assert.Nil(t, ok.Write())
	AssertGetHas(t, state, payer, []byte("40"))
	AssertGetHas(t, state, shop, []byte("60"))

	// A delete hides the value of the underlying layer.
	closing := state.CacheWrap()
	assert.Nil(t, closing.Delete(shop))
	AssertGetHas(t, closing, shop, nil)
	AssertGetHas(t, state, shop, []byte("60"))
	assert.Nil(t, closing.Write())
	AssertGetHas(t, state, shop, nil)
}

func layeredWrites(t *testing.T, newStore Factory) {
	k := func(i int) []byte { return []byte(fmt.Sprintf("key:%02d", i)) }
	v := func(s string) []byte { return []byte(s) }

	cases := map[string]struct {
		parent     []Op
		child      []Op
		wantParent []Model
		wantChild  []Model
	}{
		"child overrides parent": {
			parent:     []Op{SetOp(k(1), v("a")), SetOp(k(2), v("b"))},
			child:      []Op{SetOp(k(1), v("A")), SetOp(k(3), v("c")), DelOp(k(2))},
			wantParent: []Model{Pair(k(1), v("a")), Pair(k(2), v("b")), Pair(k(3), nil)},
			wantChild:  []Model{Pair(k(1), v("A")), Pair(k(2), nil), Pair(k(3), v("c"))},
		},
		"set after delete in the same layer": {
			parent:     []Op{SetOp(k(1), v("a"))},
			child:      []Op{DelOp(k(1)), SetOp(k(1), v("b"))},
			wantParent: []Model{Pair(k(1), v("a"))},
			wantChild:  []Model{Pair(k(1), v("b"))},
		},
		"delete of a missing key": {
			child:      []Op{DelOp(k(9))},
			wantParent: []Model{Pair(k(9), nil)},
			wantChild:  []Model{Pair(k(9), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := newStore()
			defer cleanup()
			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(child))
			}
			for _, m := range tc.wantParent {
				AssertGetHas(t, parent, m.Key, m.Value)
			}
			for _, m := range tc.wantChild {
				AssertGetHas(t, child, m.Key, m.Value)
			}
			assert.Nil(t, child.Write())
			for _, m := range tc.wantChild {
				AssertGetHas(t, parent, m.Key, m.Value)
			}
		})
	}
}

func iteration(t *testing.T, newStore Factory) {
	model := func(prefix string, i int) Model {
		return Pair([]byte(fmt.Sprintf("%s:%02d", prefix, i)), []byte(fmt.Sprintf("value %d", i)))
	}
	var parentSet, childSet []Model
	for i := 0; i < 20; i++ {
		parentSet = append(parentSet, model("p", i))
		childSet = append(childSet, model("c", i))
	}
	// The child overwrites one parent value and deletes two others.
	overwrite := Pair(parentSet[3].Key, []byte("changed"))
	deleted := [][]byte{parentSet[5].Key, parentSet[6].Key}

	var merged []Model
	merged = append(merged, childSet...)
	for i, m := range parentSet {
		switch i {
		case 3:
			merged = append(merged, overwrite)
		case 5, 6:
		default:
			merged = append(merged, m)
		}
	}
	merged = sortedModels(merged)

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all": {
			want: merged,
		},
		"from start": {
			start: merged[10].Key,
			want:  merged[10:],
		},
		"until end": {
			end:  merged[25].Key,
			want: merged[:25],
		},
		"bounded": {
			start: merged[7].Key,
			end:   merged[30].Key,
			want:  merged[7:30],
		},
		"end at deleted key": {
			start: parentSet[4].Key,
			end:   parentSet[6].Key,
			want:  []Model{parentSet[4]},
		},
		"reverse all": {
			reverse: true,
			want:    reversedModels(merged),
		},
		"reverse bounded": {
			start:   merged[2].Key,
			end:     merged[19].Key,
			reverse: true,
			want:    reversedModels(merged[2:19]),
		},
		"empty range": {
			start: []byte("z"),
			want:  nil,
		},
	}

	state, cleanup := newStore()
	defer cleanup()
	for _, m := range parentSet {
		assert.Nil(t, state.Set(m.Key, m.Value))
	}
	child := state.CacheWrap()
	for _, m := range childSet {
		assert.Nil(t, child.Set(m.Key, m.Value))
	}
	assert.Nil(t, child.Set(overwrite.Key, overwrite.Value))
	for _, k := range deleted {
		assert.Nil(t, child.Delete(k))
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			for i, want := range tc.want {
				key, value, err := it.Next()
				assert.Nil(t, err)
				if !bytes.Equal(want.Key, key) {
					t.Fatalf("result %d: want key %q, got %q", i, want.Key, key)
				}
				assert.Equal(t, want.Value, value)
			}
			if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
				t.Fatalf("want iterator to be done, got %+v", err)
			}
		})
	}
}

func sortedModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func reversedModels(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
