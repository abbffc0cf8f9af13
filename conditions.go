package splitpay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/splitpay/errors"
)

// Condition describes who can authorize an action, for example the owner
// of a signing key. It is the byte form of
//
//	<extension>/<type>/<data>
//
// where extension and type are short identifiers and data is arbitrary.
type Condition []byte

// condFormat must be compiled with (?s) so that data containing a newline
// byte still matches.
var condFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// DeriveExtension is the condition extension used by Derive.
const DeriveExtension = "splitpay"

// NewCondition builds a condition out of its parts.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+2+len(data))
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Derive returns the address of a record stored in namespace under key. Key
// chunks are joined without a separator. The same input always gives the
// same address and the address cannot be reversed into its key.
func Derive(namespace string, key ...[]byte) Address {
	return NewCondition(DeriveExtension, namespace, bytes.Join(key, nil)).Address()
}

// Parse splits the condition into its extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := condFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the address controlled by this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String renders the condition with the data part hex encoded.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	cond, err := parseCondition(s)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// parseCondition reads the String form of a condition. An empty string is a
// nil condition.
func parseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.Wrapf(errors.ErrInput, "condition %q: want ext/type/data", s)
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}
