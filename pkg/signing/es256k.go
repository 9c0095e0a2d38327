package signing

import (
	"crypto/sha256"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethodES256K is a jwt.SigningMethod for ECDSA over secp256k1,
// registered under the IANA-style alg name "ES256K" that golang-jwt/jwt does
// not ship natively. No example in the reference pack wires secp256k1 into a
// jwt.SigningMethod, so this is original to this package; it follows the
// conventions of golang-jwt's own ECDSA methods (fixed-width r||s signature,
// digest-then-sign).
type SigningMethodES256K struct{}

// SigningMethodES256KInstance is the shared instance registered with
// golang-jwt and used by DefaultSigner/DefaultVerifier.
var SigningMethodES256KInstance = &SigningMethodES256K{}

func init() {
	jwt.RegisterSigningMethod(string(AlgES256K), func() jwt.SigningMethod {
		return SigningMethodES256KInstance
	})
}

// Alg returns "ES256K".
func (m *SigningMethodES256K) Alg() string {
	return string(AlgES256K)
}

// Sign computes a secp256k1 signature over the SHA-256 digest of
// signingString and returns it as a fixed 64-byte r||s value.
func (m *SigningMethodES256K) Sign(signingString string, key any) ([]byte, error) {
	priv, ok := key.(*secp256k1.PrivateKey)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}

	digest := sha256.Sum256([]byte(signingString))

	// SignCompact prepends a 1-byte recovery/format id ahead of the fixed
	// 32-byte r and 32-byte s; JWS wants the bare r||s.
	compact := ecdsa.SignCompact(priv, digest[:], false)
	if len(compact) != 65 {
		return nil, errors.New("signing: unexpected ES256K signature length")
	}
	return compact[1:], nil
}

// Verify checks a 64-byte r||s signature against the SHA-256 digest of
// signingString.
func (m *SigningMethodES256K) Verify(signingString string, sig []byte, key any) error {
	pub, ok := key.(*secp256k1.PublicKey)
	if !ok {
		return jwt.ErrInvalidKeyType
	}
	if len(sig) != 64 {
		return jwt.ErrSignatureInvalid
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return jwt.ErrSignatureInvalid
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return jwt.ErrSignatureInvalid
	}

	digest := sha256.Sum256([]byte(signingString))
	signature := ecdsa.NewSignature(&r, &s)
	if !signature.Verify(digest[:], pub) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
