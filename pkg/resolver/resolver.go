// Package resolver provides an in-memory DIDResolver reference
// implementation. DID method drivers are out of scope for the core
// credential pipeline (it only ever sees the DIDResolver interface), but a
// runnable toolkit needs at least one concrete resolver; this one models a
// did:key-style registry, grounded on the teacher's Multikey encoding and
// on the did:key resolver shape found elsewhere in the reference pack.
package resolver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/multiformats/go-multibase"

	"onyx/pkg/signing"
)

// ErrDIDNotFound is returned when a DID has no registered verification key.
var ErrDIDNotFound = errors.New("resolver: did not found")

// multicodec prefixes for the two supported key types, per the multicodec
// table used by the did:key method (varint-encoded ahead of the raw key).
const (
	codecSecp256k1Pub uint64 = 0xe7
	codecEd25519Pub   uint64 = 0xed
)

// InMemory is a thread-safe did:key-style registry mapping DIDs to
// verification keys. It is the only mutable shared state in this package,
// guarded by a RWMutex per the core's resource policy.
type InMemory struct {
	mu   sync.RWMutex
	keys map[string]entry
}

type entry struct {
	alg signing.Alg
	raw []byte
}

// NewInMemory builds an empty resolver.
func NewInMemory() *InMemory {
	return &InMemory{keys: make(map[string]entry)}
}

// Register publishes km's verification key under its DID, round-tripping it
// through multibase Multikey encoding so the stored representation matches
// the W3C Multikey wire convention.
func (r *InMemory) Register(km signing.KeyMaterial) error {
	raw, err := signing.MarshalPublicKey(km)
	if err != nil {
		return err
	}

	codec := codecSecp256k1Pub
	if km.Alg == signing.AlgEdDSA {
		codec = codecEd25519Pub
	}

	encoded, err := encodeMultikey(codec, raw)
	if err != nil {
		return fmt.Errorf("resolver: encode multikey: %w", err)
	}
	_, decoded, codecOut, err := decodeMultikey(encoded)
	if err != nil {
		return fmt.Errorf("resolver: decode multikey: %w", err)
	}
	if codecOut != codec {
		return fmt.Errorf("resolver: multikey codec round-trip mismatch")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[km.DID] = entry{alg: km.Alg, raw: decoded}
	return nil
}

// Resolve implements signing.DIDResolver.
func (r *InMemory) Resolve(ctx context.Context, did string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	e, ok := r.keys[did]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDIDNotFound, did)
	}

	return signing.UnmarshalPublicKey(e.alg, e.raw)
}

func encodeMultikey(codec uint64, raw []byte) (string, error) {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, codec)

	body := make([]byte, 0, n+len(raw))
	body = append(body, buf[:n]...)
	body = append(body, raw...)

	return multibase.Encode(multibase.Base58BTC, body)
}

func decodeMultikey(s string) (multibase.Encoding, []byte, uint64, error) {
	enc, decoded, err := multibase.Decode(s)
	if err != nil {
		return 0, nil, 0, err
	}

	codec, n := binary.Uvarint(decoded)
	if n <= 0 {
		return 0, nil, 0, errors.New("resolver: invalid multicodec varint")
	}

	return enc, decoded[n:], codec, nil
}
