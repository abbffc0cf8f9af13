package split

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func addr(b byte) splitpay.Address {
	a := make(splitpay.Address, splitpay.AddressLength)
	a[0] = b
	return a
}

func TestCompute(t *testing.T) {
	Convey("Compute divides in basis points", t, func() {
		Convey("whole and half", func() {
			v, err := Compute(10000, 10000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 10000)

			v, err = Compute(10001, 5000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 5000)
		})

		Convey("rounds down", func() {
			v, err := Compute(9999, 1)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)

			v, err = Compute(3, 3333)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
		})

		Convey("rejects a product wider than 64 bits", func() {
			_, err := Compute(math.MaxUint64, 10000)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)

			_, err = Compute(math.MaxUint64/10000+1, 10000)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})

		Convey("accepts the largest product", func() {
			v, err := Compute(math.MaxUint64/10000, 10000)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, uint64(math.MaxUint64/10000))
		})

		Convey("zero weight", func() {
			v, err := Compute(123456, 0)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)
		})
	})
}

func TestDistribute(t *testing.T) {
	Convey("Distribute fans out a total", t, func() {
		r1, r2, r3 := addr(1), addr(2), addr(3)

		Convey("even split", func() {
			shares, rest, err := Distribute(10000, []Split{{r1, 5000}, {r2, 5000}})
			So(err, ShouldBeNil)
			So(rest, ShouldEqual, 0)
			So(shares, ShouldResemble, []Share{{r1, 5000}, {r2, 5000}})
		})

		Convey("odd amount leaves one unit unrouted", func() {
			shares, rest, err := Distribute(10001, []Split{{r1, 5000}, {r2, 5000}})
			So(err, ShouldBeNil)
			So(rest, ShouldEqual, 1)
			So(shares, ShouldResemble, []Share{{r1, 5000}, {r2, 5000}})
		})

		Convey("zero shares are skipped", func() {
			shares, rest, err := Distribute(10000, []Split{{r1, 9999}, {r2, 1}, {r3, 0}})
			So(err, ShouldBeNil)
			So(rest, ShouldEqual, 0)
			So(shares, ShouldResemble, []Share{{r1, 9999}, {r2, 1}})

			shares, rest, err = Distribute(5, []Split{{r1, 9999}, {r2, 1}})
			So(err, ShouldBeNil)
			So(rest, ShouldEqual, 1)
			So(shares, ShouldResemble, []Share{{r1, 4}})
		})

		Convey("overflow aborts everything", func() {
			shares, _, err := Distribute(math.MaxUint64, []Split{{r1, 1}, {r2, 9999}})
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			So(shares, ShouldBeNil)
		})

		Convey("the sum of shares never exceeds the total", func() {
			rnd := rand.New(rand.NewSource(42))
			for i := 0; i < 500; i++ {
				splits := randomWeights(rnd)
				total := uint64(rnd.Int63n(1 << 40))
				shares, rest, err := Distribute(total, splits)
				So(err, ShouldBeNil)

				var sum uint64
				for _, s := range shares {
					sum += s.Amount
				}
				So(sum+rest, ShouldEqual, total)
				So(rest, ShouldBeLessThan, uint64(len(splits)))
			}
		})
	})
}

// randomWeights returns up to five splits with weights summing to 10000.
func randomWeights(rnd *rand.Rand) []Split {
	n := 1 + rnd.Intn(5)
	splits := make([]Split, n)
	left := BasisPoints
	for i := range splits {
		w := left
		if i < n-1 {
			w = rnd.Intn(left + 1)
		}
		splits[i] = Split{Recipient: addr(byte(i)), Weight: uint16(w)}
		left -= w
	}
	return splits
}

func TestSplitSerialization(t *testing.T) {
	Convey("Split survives a wire round trip", t, func() {
		s := Split{Recipient: addr(7), Weight: 2500}
		raw, err := s.Marshal()
		So(err, ShouldBeNil)

		var got Split
		So(got.Unmarshal(raw), ShouldBeNil)
		So(got, ShouldResemble, s)
	})
}
