// Package signing provides the KeyMaterial type and the Signer/Verifier
// collaborator abstractions the core credential pipeline depends on, along
// with reference implementations for the two supported algorithms, ES256K
// and EdDSA.
package signing

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/golang-jwt/jwt/v5"
)

// Alg is the closed set of JWS algorithms KeyMaterial can carry.
type Alg string

const (
	// AlgES256K is ECDSA over secp256k1 with a SHA-256 digest.
	AlgES256K Alg = "ES256K"
	// AlgEdDSA is EdDSA over Ed25519 with a SHA-512 digest.
	AlgEdDSA Alg = "EdDSA"
)

var (
	// ErrUnsupportedAlg is returned for any Alg outside {ES256K, EdDSA}.
	ErrUnsupportedAlg = errors.New("signing: unsupported algorithm")
	// ErrSigningFailed wraps a failure during Sign.
	ErrSigningFailed = errors.New("signing: signing failed")
	// ErrSignatureInvalid is returned by Verify for any malformed or
	// cryptographically invalid JWS.
	ErrSignatureInvalid = errors.New("signing: signature invalid")
	// ErrResolverFailure wraps a failure resolving the signer's DID.
	ErrResolverFailure = errors.New("signing: resolver failure")
)

// KeyMaterial is the opaque key bundle the core pipeline is handed. PublicKey
// and PrivateKey are algorithm-tagged: ed25519.PublicKey/ed25519.PrivateKey
// for AlgEdDSA, *secp256k1.PublicKey/*secp256k1.PrivateKey for AlgES256K.
type KeyMaterial struct {
	DID        string
	Alg        Alg
	PublicKey  any
	PrivateKey any
}

// GenerateKeyMaterial mints a fresh key pair for the given algorithm, bound
// to did. Intended for tests and the CLI demo; production key provisioning
// is out of scope for the core.
func GenerateKeyMaterial(did string, alg Alg) (KeyMaterial, error) {
	switch alg {
	case AlgES256K:
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("signing: generate ES256K key: %w", err)
		}
		return KeyMaterial{DID: did, Alg: alg, PublicKey: priv.PubKey(), PrivateKey: priv}, nil
	case AlgEdDSA:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("signing: generate EdDSA key: %w", err)
		}
		return KeyMaterial{DID: did, Alg: alg, PublicKey: pub, PrivateKey: priv}, nil
	default:
		return KeyMaterial{}, ErrUnsupportedAlg
	}
}

func signingMethod(alg Alg) (jwt.SigningMethod, error) {
	switch alg {
	case AlgES256K:
		return SigningMethodES256KInstance, nil
	case AlgEdDSA:
		return jwt.SigningMethodEdDSA, nil
	default:
		return nil, ErrUnsupportedAlg
	}
}

// Signer signs a JWT claim set with a KeyMaterial, returning the compact
// JWS.
type Signer interface {
	Sign(ctx context.Context, key KeyMaterial, claims jwt.MapClaims) (string, error)
}

// DIDResolver maps a DID to its verification key. It is the only
// collaborator the Verifier depends on; callers supply their own
// implementation (pkg/resolver ships an in-memory one).
type DIDResolver interface {
	Resolve(ctx context.Context, did string) (any, error)
}

// Verifier verifies a compact JWS, resolving the signer's verification key
// from the payload's iss claim via the supplied resolver.
type Verifier interface {
	Verify(ctx context.Context, resolver DIDResolver, compactJWS string) (jwt.MapClaims, error)
}

// DefaultSigner signs using the two built-in algorithms.
type DefaultSigner struct{}

// Sign implements Signer.
func (DefaultSigner) Sign(ctx context.Context, key KeyMaterial, claims jwt.MapClaims) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	method, err := signingMethod(key.Alg)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = key.DID

	signed, err := token.SignedString(key.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return signed, nil
}

// DefaultVerifier verifies using the two built-in algorithms, resolving the
// verification key from the JWS's iss claim.
type DefaultVerifier struct{}

// Verify implements Verifier.
func (DefaultVerifier) Verify(ctx context.Context, resolver DIDResolver, compactJWS string) (jwt.MapClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(compactJWS, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	claims, ok := unverified.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSignatureInvalid
	}
	iss, _ := claims["iss"].(string)
	if iss == "" {
		return nil, fmt.Errorf("%w: missing iss", ErrSignatureInvalid)
	}

	pub, err := resolver.Resolve(ctx, iss)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverFailure, err)
	}

	token, err := jwt.Parse(compactJWS, func(t *jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{string(AlgES256K), string(AlgEdDSA)}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	out, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSignatureInvalid
	}
	return out, nil
}
