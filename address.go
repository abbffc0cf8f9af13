package splitpay

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/splitpay/crypto/bech32"
	"github.com/iov-one/splitpay/errors"
)

// AddressLength is the size of every address in bytes.
const AddressLength = 20

// Address is the one way digest of a Condition. It identifies wallets,
// alias owners and derived records alike.
type Address []byte

// NewAddress returns the address of given data. Nil data has no address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that shares no memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

func (a Address) Validate() error {
	switch len(a) {
	case 0:
		return errors.ErrEmpty
	case AddressLength:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "address of %d bytes", len(a))
	}
}

// String returns the upper case hex form, or "(nil)" for an empty address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with given human readable prefix.
func (a Address) Bech32(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return a.Set(s)
}

// Set implements flag.Value.
func (a *Address) Set(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps an encoding prefix to its decoder. Decoders receive a
// non empty string with the prefix removed.
var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(s string) (Address, error) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		return Address(raw), nil
	},
	"cond": func(s string) (Address, error) {
		c, err := parseCondition(s)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	},
	"bech32": func(s string) (Address, error) {
		_, payload, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
		}
		return Address(payload), nil
	},
}

// ParseAddress decodes an address written as "<format>:<value>". Supported
// formats are hex, cond and bech32. Without a prefix the value is hex. An
// empty value is a nil address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown address format %q", format)
	}
	if value == "" {
		return nil, nil
	}
	addr, err := decode(value)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
