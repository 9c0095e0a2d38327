// Package statuslist implements the StatusList2021 revocation bitmap: a
// fixed-size bitstring with compressed serialization, plus the issuer-side
// revoke flow that fetches, mutates, re-wraps as a Verifiable Credential,
// and republishes it.
package statuslist

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Words is the number of 64-bit words backing the bitmap.
	Words = 2000
	// BitsPerWord is the number of revocation bits packed per word.
	BitsPerWord = 64
	// Capacity is the total addressable bit range, [0, Capacity).
	Capacity = Words * BitsPerWord
)

// RevocationList is a fixed 128000-bit revocation bitmap. The zero value is
// not ready to use; construct one with New or Parse. Bit i lives in word
// 1999-i/64, bit i%64 of that word — index 0 sits in the highest-addressed
// word, matching the wire format's reversed word order.
type RevocationList struct {
	words [Words]uint64
}

// New returns a zero-initialized revocation list: nothing revoked.
func New() *RevocationList {
	return &RevocationList{}
}

func addr(i int) (word, bit int, err error) {
	if i < 0 || i >= Capacity {
		return 0, 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return Words - 1 - i/BitsPerWord, i % BitsPerWord, nil
}

// IsRevoked reports whether bit i is set. Out-of-range i fails the same way
// Revoke does, rather than silently reporting false.
func (l *RevocationList) IsRevoked(i int) (bool, error) {
	w, b, err := addr(i)
	if err != nil {
		return false, err
	}
	return l.words[w]&(uint64(1)<<uint(b)) != 0, nil
}

// Revoke sets bit i. Idempotent: revoking an already-revoked index is a
// no-op success.
func (l *RevocationList) Revoke(i int) error {
	w, b, err := addr(i)
	if err != nil {
		return err
	}
	l.words[w] |= uint64(1) << uint(b)
	return nil
}

// Serialize renders the bitmap as contiguous little-endian word bytes,
// gzip-compressed, standard (not url-safe) base64-encoded.
func (l *RevocationList) Serialize() (string, error) {
	raw := make([]byte, Words*8)
	for i, w := range l.words {
		binary.LittleEndian.PutUint64(raw[i*8:], w)
	}

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(compressed.Bytes()), nil
}

// Parse reverses Serialize: base64-decode, gunzip, and reinterpret the byte
// buffer as Words little-endian 64-bit words.
func Parse(encoded string) (*RevocationList, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	if len(raw) != Words*8 {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrBadLength, Words*8, len(raw))
	}

	l := &RevocationList{}
	for i := range l.words {
		l.words[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return l, nil
}
