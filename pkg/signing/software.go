package signing

import (
	"crypto/ed25519"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// MarshalPublicKey renders a KeyMaterial's public key as raw bytes:
// 33-byte SEC1-compressed for ES256K, 32 bytes for EdDSA. Used by
// pkg/resolver when publishing a DID's verification key.
func MarshalPublicKey(km KeyMaterial) ([]byte, error) {
	switch km.Alg {
	case AlgES256K:
		pub, ok := km.PublicKey.(*secp256k1.PublicKey)
		if !ok {
			return nil, fmt.Errorf("signing: public key is %T, want *secp256k1.PublicKey", km.PublicKey)
		}
		return pub.SerializeCompressed(), nil
	case AlgEdDSA:
		pub, ok := km.PublicKey.(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("signing: public key is %T, want ed25519.PublicKey", km.PublicKey)
		}
		return []byte(pub), nil
	default:
		return nil, ErrUnsupportedAlg
	}
}

// UnmarshalPublicKey parses raw public key bytes produced by
// MarshalPublicKey back into the algorithm-tagged type Verify expects.
func UnmarshalPublicKey(alg Alg, raw []byte) (any, error) {
	switch alg {
	case AlgES256K:
		pub, err := secp256k1.ParsePubKey(raw)
		if err != nil {
			return nil, fmt.Errorf("signing: parse ES256K public key: %w", err)
		}
		return pub, nil
	case AlgEdDSA:
		if len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("signing: EdDSA public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
		}
		return ed25519.PublicKey(raw), nil
	default:
		return nil, ErrUnsupportedAlg
	}
}
