// Package disclosure implements the SD-JWT disclosure codec: encoding and
// parsing of the [salt, name, value] triples that back selective disclosure,
// and the digest commitment over their encoded form. The codec itself is
// delegated to the teacher's own vendored dependency for this exact wire
// shape, github.com/MichaelFraser99/go-sd-jwt/disclosure, rather than
// reimplemented on raw encoding/json + encoding/base64.
package disclosure

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	sdjwtdisclosure "github.com/MichaelFraser99/go-sd-jwt/disclosure"

	"onyx/pkg/hashalg"
)

// ErrMalformedDisclosure is returned when a disclosure string does not
// decode to a 3-element JSON array.
var ErrMalformedDisclosure = errors.New("disclosure: malformed")

// ErrNestedNotSupported is returned when a claim value to hide is not a JSON
// primitive.
var ErrNestedNotSupported = errors.New("disclosure: nested value not supported")

// Kind tags the primitive JSON type a disclosed claim value holds. Objects
// are deliberately not representable here: nested disclosure is a non-goal.
type Kind int

const (
	// KindNull represents a JSON null value.
	KindNull Kind = iota
	// KindString represents a JSON string value.
	KindString
	// KindNumber represents a JSON number value.
	KindNumber
	// KindBool represents a JSON boolean value.
	KindBool
)

// Value is a tagged primitive JSON value. It is the Go-native stand-in for
// the dynamic claim typing of the original claim model: String, Number,
// Bool, and Null are representable; Object is not, by construction.
// go-sd-jwt's Disclosure.Value is a bare `any` with no such guarantee, so
// this wrapper is what keeps that guarantee on this package's boundary.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// String builds a string-valued Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number builds a number-valued Value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool builds a bool-valued Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Null builds a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Any renders v back to the dynamic type encoding/json would produce for it,
// the shape go-sd-jwt's disclosure.NewFromObject expects for its value
// parameter.
func (v Value) Any() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

// MarshalJSON renders the Value as its underlying JSON primitive.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON populates the Value from a JSON primitive, failing on
// objects and arrays.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := valueFromAny(raw, ErrMalformedDisclosure)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// FromAny converts a dynamic Go value (as produced by encoding/json
// unmarshalling into interface{}, or supplied directly by a caller) into a
// Value, failing for maps/slices. Used at issuance time, before a claim
// value is handed to go-sd-jwt's NewFromObject, since that library accepts
// any value (including objects) without this spec's primitive-only
// restriction.
func FromAny(v any) (Value, error) {
	return valueFromAny(v, ErrNestedNotSupported)
}

func valueFromAny(v any, malformed error) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case bool:
		return Bool(t), nil
	default:
		return Value{}, fmt.Errorf("%w: non-primitive value %T", malformed, v)
	}
}

// Disclosure is a decoded [salt, name, value] triple.
type Disclosure struct {
	Salt  string
	Name  string
	Value Value
}

// NewSalt generates a fresh 16-byte salt, base64url-rendered without
// padding, using a cryptographically secure RNG — the same construction
// go-sd-jwt's internal/salt package uses, reimplemented here because that
// package is internal to go-sd-jwt's own module and cannot be imported.
// Passing the result explicitly to NewFromObject below (rather than leaving
// its salt parameter nil) keeps salt generation under this package's own
// control.
func NewSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Encode renders a disclosure triple as base64url(json([salt, name,
// value])), using go-sd-jwt's disclosure.NewFromObject for the actual
// array-build/marshal/base64url-encode steps — the codec the teacher itself
// depends on for this exact wire shape (see e.g.
// internal/issuer/apiv1/credential_pda1.go in the teacher repo).
func Encode(salt, name string, value Value) (string, error) {
	d, err := sdjwtdisclosure.NewFromObject(name, value.Any(), &salt)
	if err != nil {
		return "", err
	}
	return d.EncodedValue, nil
}

// Parse decodes a disclosure string back into its triple, rejecting
// anything whose decoded JSON is not an exactly-3-element array of
// [string salt, string name, primitive value].
//
// go-sd-jwt's NewFromDisclosure also accepts its own 2-element
// "array element" disclosure form (used for disclosing array entries, out
// of scope here) and asserts dArray[0]/dArray[1] directly to string without
// a guarded type switch — an adversarial 2-element array of non-strings
// panics inside it rather than returning an error. Since Parse runs on
// untrusted wire input during verification, this recovers that panic into
// ErrMalformedDisclosure instead of letting it crash the caller.
func Parse(s string) (result Disclosure, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = Disclosure{}
			err = fmt.Errorf("%w: %v", ErrMalformedDisclosure, r)
		}
	}()

	parsed, perr := sdjwtdisclosure.NewFromDisclosure(s)
	if perr != nil {
		return Disclosure{}, fmt.Errorf("%w: %v", ErrMalformedDisclosure, perr)
	}
	if parsed.Key == nil {
		return Disclosure{}, fmt.Errorf("%w: expected 3 elements, got 2 (array-element form)", ErrMalformedDisclosure)
	}

	value, verr := valueFromAny(parsed.Value, ErrMalformedDisclosure)
	if verr != nil {
		return Disclosure{}, verr
	}

	return Disclosure{Salt: parsed.Salt, Name: *parsed.Key, Value: value}, nil
}

// Digest hashes the ASCII bytes of an already-encoded disclosure string
// using the digest function named by alg, returning an unpadded base64url
// string. The digest is taken over the encoded string itself, not the
// decoded triple, so commitments stay byte-exact. Delegates the actual
// hash-then-base64url-encode step to go-sd-jwt's Disclosure.Hash, which
// performs exactly this operation.
func Digest(alg, encoded string) (string, error) {
	h, err := hashalg.New(alg)
	if err != nil {
		return "", err
	}
	d := &sdjwtdisclosure.Disclosure{EncodedValue: encoded}
	return string(d.Hash(h)), nil
}
