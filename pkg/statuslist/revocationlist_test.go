package statuslist_test

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onyx/pkg/statuslist"
)

func TestRevokeAndQuery(t *testing.T) {
	l := statuslist.New()

	revoked, err := l.IsRevoked(42)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, l.Revoke(42))

	revoked, err = l.IsRevoked(42)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = l.IsRevoked(41)
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = l.IsRevoked(43)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeIdempotent(t *testing.T) {
	l := statuslist.New()
	require.NoError(t, l.Revoke(7))
	require.NoError(t, l.Revoke(7))

	revoked, err := l.IsRevoked(7)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeOutOfRange(t *testing.T) {
	l := statuslist.New()
	err := l.Revoke(statuslist.Capacity)
	assert.ErrorIs(t, err, statuslist.ErrIndexOutOfRange)

	err = l.Revoke(-1)
	assert.ErrorIs(t, err, statuslist.ErrIndexOutOfRange)
}

func TestSerializeParseRoundTrip(t *testing.T) {
	l := statuslist.New()
	require.NoError(t, l.Revoke(42))
	require.NoError(t, l.Revoke(128000-1))

	encoded, err := l.Serialize()
	require.NoError(t, err)

	parsed, err := statuslist.Parse(encoded)
	require.NoError(t, err)

	for _, i := range []int{42, 128000 - 1} {
		revoked, err := parsed.IsRevoked(i)
		require.NoError(t, err)
		assert.True(t, revoked)
	}
	revoked, err := parsed.IsRevoked(41)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestParseRejectsBadLength(t *testing.T) {
	empty := statuslist.New()
	_, err := empty.Serialize()
	require.NoError(t, err)

	_, err = statuslist.Parse("not-valid-base64")
	assert.Error(t, err)

	// A well-formed gzip+base64 payload that decompresses to too few bytes.
	var short bytes.Buffer
	zw := gzip.NewWriter(&short)
	_, err = zw.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = statuslist.Parse(base64.StdEncoding.EncodeToString(short.Bytes()))
	assert.ErrorIs(t, err, statuslist.ErrBadLength)
}
