package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Errors are declared upfront so that they can be compared.
	var (
		emptyAlias    = Field("Alias", ErrEmpty, "alias is required")
		invalidAlias  = Field("Alias", ErrInput, "invalid characters")
		zeroWeight    = Field("Weight", ErrInput, "weight must be positive")
		missingRecip  = Field("Recipient", ErrEmpty, "")
		firstSplit    = Field("Splits.0", Append(zeroWeight, missingRecip), "")
		secondSplit   = Field("Splits.1", zeroWeight, "")
		routeErr      = Append(emptyAlias, firstSplit, secondSplit, ErrState)
		doubleWrapped = Field("Alias", invalidAlias, "outer")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"nil error": {
			Err:   nil,
			Field: "Alias",
			Want:  nil,
		},
		"plain error has no fields": {
			Err:   ErrUnauthorized,
			Field: "Alias",
			Want:  nil,
		},
		"single field": {
			Err:   emptyAlias,
			Field: "Alias",
			Want:  []error{emptyAlias},
		},
		"other field": {
			Err:   emptyAlias,
			Field: "Amount",
			Want:  nil,
		},
		"all matches of a multi error": {
			Err:   Append(emptyAlias, invalidAlias),
			Field: "Alias",
			Want:  []error{emptyAlias, invalidAlias},
		},
		"nested field holding a multi error": {
			Err:   routeErr,
			Field: "Splits.0",
			Want:  []error{firstSplit},
		},
		"fields found inside nested fields": {
			Err:   routeErr,
			Field: "Weight",
			Want:  []error{zeroWeight, zeroWeight},
		},
		"wrapped multi error": {
			Err:   Wrap(Wrap(routeErr, "inner"), "outer"),
			Field: "Recipient",
			Want:  []error{missingRecip},
		},
		"wrapped multi error without a match": {
			Err:   Wrap(routeErr, "route"),
			Field: "Memo",
			Want:  nil,
		},
		"outermost field of the same name": {
			Err:   doubleWrapped,
			Field: "Alias",
			Want:  []error{doubleWrapped},
		},
		"field wrapped in other fields": {
			Err:   Field("Route", Field("Splits", missingRecip, ""), ""),
			Field: "Recipient",
			Want:  []error{missingRecip},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(tc.Want, got) {
				t.Logf("want: %#v", tc.Want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestFieldNilError(t *testing.T) {
	if err := Field("Alias", nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := AppendField(nil, "Alias", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestFieldMessage(t *testing.T) {
	err := Field("Splits.1", ErrInput, "weight %d out of range", 12000)
	want := `field "Splits.1": weight 12000 out of range: invalid input`
	if err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}
